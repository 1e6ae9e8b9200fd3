package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"calboard/internal/calendar"
	"calboard/internal/config"
	"calboard/internal/engine"
	"calboard/internal/task"
)

const (
	defaultCellWidth = 14
	minCellWidth     = 6
	tasksPerCell     = 2
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Faint(true)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	outsideStyle  = lipgloss.NewStyle().Faint(true)
	todayStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)

	categoryStyles = [task.NumCategories]lipgloss.Style{
		task.ToDo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.InProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.Review:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		task.Completed:  lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Faint(true),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(calendar.MonthName(m.snap.Month)))
	if lines := m.snap.Filters.Summary(); len(lines) > 0 {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(strings.Join(lines, " • ")))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
	case modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDayPanel())
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) cellWidth() int {
	w := m.width / 7
	if w < minCellWidth {
		return minCellWidth
	}
	return w
}

func (m Model) renderGrid() string {
	w := m.cellWidth()
	inner := w - cellStyle.GetHorizontalPadding()

	var header []string
	for _, name := range calendar.WeekdayNames() {
		header = append(header, cellStyle.Width(w).Render(headerStyle.Render(name)))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	cells := m.snap.Grid()
	for start := 0; start < len(cells); start += 7 {
		var week []string
		for _, c := range cells[start : start+7] {
			week = append(week, m.renderCell(c, w, inner))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(c engine.Cell, w, inner int) string {
	num := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case calendar.SameDay(c.Date, m.cursor):
		num = cursorStyle.Render(num)
	case c.IsToday:
		num = todayStyle.Render(num)
	}
	if m.snap.Highlighted(c.Date) {
		num += " " + selectedStyle.Render("●")
	}
	if t, ok := m.snap.Dragging(); ok && t.Covers(c.Date) {
		num += " ↔"
	}

	lines := []string{num}
	for i, t := range c.Tasks {
		if i == tasksPerCell {
			lines = append(lines, headerStyle.Render(fmt.Sprintf("+%d more", len(c.Tasks)-tasksPerCell)))
			break
		}
		lines = append(lines, categoryStyles[t.Category].Render(truncate.StringWithTail(t.Title, uint(inner), "…")))
	}
	for len(lines) < tasksPerCell+2 {
		lines = append(lines, "")
	}

	style := cellStyle.Width(w)
	if !c.IsCurrentMonth {
		style = style.Inherit(outsideStyle)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDayPanel() string {
	ts := m.dayTasks()
	var b strings.Builder
	b.WriteString(calendar.Format(m.cursor))
	b.WriteString("\n")
	if len(ts) == 0 {
		b.WriteString(headerStyle.Render("No tasks"))
		return b.String()
	}
	focus := clampCursor(m.focus, len(ts))
	for i, t := range ts {
		prefix := " "
		if i == focus {
			prefix = ">"
		}
		span := calendar.Format(t.Start)
		if t.Days() > 1 {
			span += ".." + calendar.Format(t.End)
		}
		b.WriteString(fmt.Sprintf("%s %-11s %s  %s\n", prefix, t.Category, categoryStyles[t.Category].Render(t.Title), headerStyle.Render(span)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderForm() string {
	f := m.snap.Form
	heading := "New task"
	if f.Editing() {
		heading = "Edit task"
	}
	var span string
	if len(f.Range) > 0 {
		span = calendar.Format(f.Range[0])
		if len(f.Range) > 1 {
			span += " → " + calendar.Format(f.Range[len(f.Range)-1])
		}
	}

	var cats []string
	for _, c := range task.Categories() {
		label := c.String()
		if c == m.category {
			label = cursorStyle.Render(label)
		}
		cats = append(cats, label)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("  ")
	b.WriteString(span)
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\nCategory: ")
	b.WriteString(strings.Join(cats, " | "))
	return panelStyle.Render(b.String())
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("arrows/%s%s%s%s move • %s select • %s finish/drop • %s edit • %s delete • %s next • %s move task • 1-4/%s categories • %s weeks • %s search • %s/%s month • %s today • %s quit",
		k.Left, k.Down, k.Up, k.Right, k.Select, k.Confirm, k.Edit, k.Delete, k.NextTask, k.Move, k.AllToggle, k.Weeks, k.Search, k.PrevMonth, k.NextMonth, k.Today, k.Quit)
}
