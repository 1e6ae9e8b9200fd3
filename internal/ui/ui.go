package ui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"calboard/internal/calendar"
	"calboard/internal/config"
	"calboard/internal/engine"
	"calboard/internal/task"
)

type mode int

const (
	modeGrid mode = iota
	modeForm
	modeSearch
)

type Model struct {
	engine     *engine.Engine
	cfg        config.Config
	logger     *log.Logger
	snap       engine.Snapshot
	cursor     time.Time
	focus      int
	mode       mode
	input      textinput.Model
	category   task.Category
	prevSearch string
	status     string
	confirmDel bool
	pendingDel *task.Task
	width      int
}

func New(e *engine.Engine, cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	snap := e.Snapshot()
	return Model{
		engine: e,
		cfg:    cfg,
		logger: logger,
		snap:   snap,
		cursor: calendar.Truncate(snap.Now),
		input:  ti,
		mode:   modeGrid,
		status: fmt.Sprintf("Press '%s' to start selecting days, '%s' to quit.", cfg.Keys.Select, cfg.Keys.Quit),
		width:  7 * defaultCellWidth,
	}
}

func Run(e *engine.Engine, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(e, cfg, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeForm:
		return m.updateFormMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateGridMode(key)
}

// dispatch sends cmd to the engine, keeping the returned snapshot. Errors
// become the status line.
func (m *Model) dispatch(cmd engine.Command) bool {
	snap, err := m.engine.Dispatch(cmd)
	m.snap = snap
	if err != nil {
		m.status = err.Error()
		return false
	}
	return true
}

func (m Model) updateGridMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case "left", k.Left:
		m.moveCursor(-1)
	case "right", k.Right:
		m.moveCursor(1)
	case "up", k.Up:
		m.moveCursor(-7)
	case "down", k.Down:
		m.moveCursor(7)
	case k.Select:
		if m.dispatch(engine.BeginDrag{Date: m.cursor}) {
			m.status = "Selecting: move to extend, enter to finish, esc to abort"
		}
	case k.Confirm:
		return m.confirm()
	case k.Cancel:
		switch {
		case m.snap.Selection.Selecting:
			m.dispatch(engine.ResetDrag{})
			m.status = "Selection cleared"
		case m.snap.DraggingID != "":
			m.dispatch(engine.CancelTaskDrag{})
			m.status = "Move cancelled"
		}
	case k.NextTask:
		m.focus = wrapIndex(m.focus+1, len(m.dayTasks()))
	case k.Edit:
		t, ok := m.focused()
		if !ok {
			m.status = "No task on this day"
			return m, nil
		}
		if m.dispatch(engine.OpenEditor{ID: t.ID}) {
			return m.openForm(), nil
		}
	case k.Delete:
		t, ok := m.focused()
		if !ok {
			m.status = "No task on this day"
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.Move:
		t, ok := m.focused()
		if !ok {
			m.status = "No task on this day"
			return m, nil
		}
		if m.dispatch(engine.StartTaskDrag{ID: t.ID}) {
			m.status = fmt.Sprintf("Moving \"%s\": pick a day and press enter", t.Title)
		}
	case "1", "2", "3", "4":
		c := task.Category(key[0] - '1')
		if m.dispatch(engine.ToggleCategory{Category: c, Enabled: !m.snap.Filters.CategoryEnabled(c)}) {
			m.status = m.filterStatus()
		}
	case k.AllToggle:
		if m.dispatch(engine.SetAllCategories{Enabled: !m.snap.Filters.AllEnabled()}) {
			m.status = m.filterStatus()
		}
	case k.Weeks:
		if m.dispatch(engine.SetTimeWindow{Weeks: (m.snap.Filters.Weeks + 1) % 4}) {
			m.status = m.filterStatus()
		}
	case k.Search:
		m.mode = modeSearch
		m.prevSearch = m.snap.Filters.Search
		m.input.SetValue(m.snap.Filters.Search)
		m.input.Placeholder = "Search titles"
		m.input.Focus()
		m.status = "Search: type to filter, enter to keep, esc to restore"
	case k.PrevMonth:
		m.shiftMonth(-1)
	case k.NextMonth:
		m.shiftMonth(1)
	case k.Today:
		if m.dispatch(engine.GoToday{}) {
			m.cursor = calendar.Truncate(m.snap.Now)
			m.focus = 0
		}
	}
	return m, nil
}

// confirm ends a running gesture or drops the task being moved.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	switch {
	case m.snap.DraggingID != "":
		t, _ := m.snap.Dragging()
		if m.dispatch(engine.DropOnDay{Date: m.cursor}) {
			m.status = fmt.Sprintf("Moved \"%s\" to %s", t.Title, calendar.Format(m.cursor))
			m.logger.Printf("moved %s to %s", t.ID, calendar.Format(m.cursor))
		}
	case m.snap.Selection.Selecting:
		if m.dispatch(engine.EndDrag{}) && m.snap.Form.Open {
			return m.openForm(), nil
		}
	default:
		if ts := m.dayTasks(); len(ts) > 0 {
			t := ts[clampCursor(m.focus, len(ts))]
			m.status = detail(t)
		}
	}
	return m, nil
}

func (m Model) openForm() Model {
	m.mode = modeForm
	m.category = m.snap.Form.Category
	m.input.SetValue(m.snap.Form.Title)
	m.input.Placeholder = "Task title"
	m.input.Focus()
	m.status = "Title, tab to change category, enter to save, esc to cancel"
	return m
}

func (m Model) closeInput() Model {
	m.mode = modeGrid
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.dispatch(engine.CancelForm{})
		m = m.closeInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.NextCategory, "tab":
		m.category = task.Category(wrapIndex(int(m.category)+1, task.NumCategories))
		return m, nil
	case "shift+tab":
		m.category = task.Category(wrapIndex(int(m.category)-1, task.NumCategories))
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		editing := m.snap.Form.Editing()
		title := strings.TrimSpace(m.input.Value())
		if !m.dispatch(engine.SubmitForm{Title: title, Category: m.category}) {
			return m, nil
		}
		m = m.closeInput()
		if editing {
			m.status = "Task updated"
		} else {
			m.status = "Added task"
			m.logger.Printf("added %q", title)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.dispatch(engine.SetSearch{Text: m.prevSearch})
		m = m.closeInput()
		m.status = m.filterStatus()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m = m.closeInput()
		m.status = m.filterStatus()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.dispatch(engine.SetSearch{Text: m.input.Value()})
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if m.dispatch(engine.DeleteTask{ID: m.pendingDel.ID}) {
			m.status = "Deleted task"
			m.logger.Printf("deleted %s", m.pendingDel.ID)
			m.focus = clampCursor(m.focus, len(m.dayTasks()))
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

// moveCursor shifts the cursor by days, following it into other months and
// extending a running gesture.
func (m *Model) moveCursor(days int) {
	m.cursor = calendar.AddDays(m.cursor, days)
	m.focus = 0
	if !sameMonth(m.cursor, m.snap.Month) {
		m.dispatch(engine.SetViewedMonth{Date: m.cursor})
	}
	if m.snap.Selection.Selecting {
		m.dispatch(engine.ExtendDrag{Date: m.cursor})
	}
}

func (m *Model) shiftMonth(delta int) {
	if !m.dispatch(engine.ShiftMonth{Delta: delta}) {
		return
	}
	day := m.cursor.Day()
	if n := calendar.DaysInMonth(m.snap.Month); day > n {
		day = n
	}
	mo := m.snap.Month
	m.cursor = time.Date(mo.Year(), mo.Month(), day, 0, 0, 0, 0, mo.Location())
	m.focus = 0
}

func (m Model) dayTasks() []task.Task {
	return m.snap.TasksOn(m.cursor)
}

func (m Model) focused() (task.Task, bool) {
	ts := m.dayTasks()
	if len(ts) == 0 {
		return task.Task{}, false
	}
	return ts[clampCursor(m.focus, len(ts))], true
}

func (m Model) filterStatus() string {
	lines := m.snap.Filters.Summary()
	if len(lines) == 0 {
		return "Showing all tasks"
	}
	return strings.Join(lines, " • ")
}

func detail(t task.Task) string {
	info := fmt.Sprintf("%s • %s • %s", t.Title, t.Category, calendar.Format(t.Start))
	if t.Days() > 1 {
		info += " → " + calendar.Format(t.End) + fmt.Sprintf(" (%d days)", t.Days())
	}
	return info
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
