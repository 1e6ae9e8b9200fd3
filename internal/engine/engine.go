// Package engine composes the drag selection, the task store and the filter
// pipeline behind a single command surface. An Engine is not safe for
// concurrent use; callers run it from one event loop.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"calboard/internal/calendar"
	"calboard/internal/filter"
	"calboard/internal/task"
)

var (
	ErrNoForm  = errors.New("engine: no form is open")
	ErrNoRange = errors.New("engine: no dates selected")
)

// TaskStore is the task collection the engine mutates.
type TaskStore interface {
	Add(title string, c task.Category, start, end time.Time) (task.Task, error)
	Update(id string, p task.Patch) (task.Task, error)
	Remove(id string) bool
	List() []task.Task
	Get(id string) (task.Task, bool)
}

type Engine struct {
	store  TaskStore
	snap   Snapshot
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFilters sets the filters the first snapshot starts from.
func WithFilters(f filter.State) Option {
	return func(e *Engine) { e.snap.Filters = f }
}

func New(store TaskStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
		snap:   Snapshot{Filters: filter.Default()},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snap.Month = calendar.FirstOfMonth(e.now())
	e.snap = e.derive(e.snap)
	return e
}

func (e *Engine) Snapshot() Snapshot {
	return e.snap
}

// Dispatch applies cmd and returns the resulting snapshot. On error the
// previous snapshot stays current and is returned alongside the error.
func (e *Engine) Dispatch(cmd Command) (Snapshot, error) {
	next, err := transition(e.snap, cmd, deps{store: e.store, now: e.now()})
	if err != nil {
		e.logger.Printf("%T: %v", cmd, err)
		return e.snap, err
	}
	e.snap = e.derive(next)
	return e.snap, nil
}

// derive refreshes the task list and recomputes the filtered view.
func (e *Engine) derive(s Snapshot) Snapshot {
	s.Now = e.now()
	s.Tasks = e.store.List()
	s.Filtered = filter.Apply(s.Tasks, s.Filters, s.Now)
	return s
}

type deps struct {
	store TaskStore
	now   time.Time
}

// transition is the single handler for every command. s is a copy; the only
// side effects are the store calls made by task commands.
func transition(s Snapshot, cmd Command, d deps) (Snapshot, error) {
	switch c := cmd.(type) {
	case BeginDrag:
		s.Selection = s.Selection.Begin(c.Date)
	case ExtendDrag:
		s.Selection = s.Selection.Extend(c.Date)
	case EndDrag:
		if !s.Selection.Selecting {
			return s, nil
		}
		sel, dates := s.Selection.End()
		s.Selection = sel
		if len(dates) > 0 {
			s.Form = Form{Open: true, Category: task.ToDo, Range: dates}
		}
	case ResetDrag:
		s.Selection = s.Selection.Reset()

	case AddTask:
		if _, err := d.store.Add(c.Title, c.Category, c.Start, c.End); err != nil {
			return s, err
		}
	case UpdateTask:
		if _, err := d.store.Update(c.ID, c.Patch); err != nil {
			return s, err
		}
	case DeleteTask:
		if c.ID == "" {
			return s, nil
		}
		d.store.Remove(c.ID)
		if s.Form.EditingID == c.ID {
			s.Form = Form{}
		}
		if s.DraggingID == c.ID {
			s.DraggingID = ""
		}

	case StartTaskDrag:
		if _, ok := d.store.Get(c.ID); !ok {
			return s, fmt.Errorf("drag %s: %w", c.ID, task.ErrNotFound)
		}
		s.DraggingID = c.ID
	case DropOnDay:
		if s.DraggingID == "" {
			return s, nil
		}
		t, ok := d.store.Get(s.DraggingID)
		if !ok {
			s.DraggingID = ""
			return s, nil
		}
		start, end := t.Relocate(c.Date)
		if _, err := d.store.Update(t.ID, task.Patch{Start: &start, End: &end}); err != nil {
			return s, err
		}
		s.DraggingID = ""
	case CancelTaskDrag:
		s.DraggingID = ""

	case ToggleCategory:
		if !c.Category.Valid() {
			return s, &task.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %d", int(c.Category))}
		}
		s.Filters = s.Filters.WithCategory(c.Category, c.Enabled)
	case SetAllCategories:
		s.Filters = s.Filters.WithAllCategories(c.Enabled)
	case SetTimeWindow:
		if c.Weeks < 0 {
			return s, &task.ValidationError{Field: "weeks", Reason: "must be zero (no limit) or positive"}
		}
		s.Filters = s.Filters.WithWeeks(c.Weeks)
	case SetSearch:
		s.Filters = s.Filters.WithSearch(c.Text)

	case SetViewedMonth:
		s.Month = calendar.FirstOfMonth(c.Date)
	case ShiftMonth:
		m := s.Month
		s.Month = time.Date(m.Year(), m.Month()+time.Month(c.Delta), 1, 0, 0, 0, 0, m.Location())
	case GoToday:
		s.Month = calendar.FirstOfMonth(d.now)

	case OpenEditor:
		t, ok := d.store.Get(c.ID)
		if !ok {
			return s, fmt.Errorf("edit %s: %w", c.ID, task.ErrNotFound)
		}
		s.Form = Form{
			Open:      true,
			EditingID: t.ID,
			Title:     t.Title,
			Category:  t.Category,
			Range:     calendar.Range(t.Start, t.End),
		}
	case SubmitForm:
		return submit(s, c, d)
	case CancelForm:
		s.Form = Form{}
		s.Selection = s.Selection.Reset()

	default:
		return s, fmt.Errorf("engine: unknown command %T", cmd)
	}
	return s, nil
}

func submit(s Snapshot, c SubmitForm, d deps) (Snapshot, error) {
	if !s.Form.Open {
		return s, ErrNoForm
	}
	if s.Form.Editing() {
		patch := task.Patch{Title: &c.Title, Category: &c.Category}
		if _, err := d.store.Update(s.Form.EditingID, patch); err != nil {
			return s, err
		}
	} else {
		if len(s.Form.Range) == 0 {
			return s, ErrNoRange
		}
		first, last := s.Form.Range[0], s.Form.Range[len(s.Form.Range)-1]
		if _, err := d.store.Add(c.Title, c.Category, first, last); err != nil {
			return s, err
		}
	}
	s.Form = Form{}
	s.Selection = s.Selection.Reset()
	return s, nil
}

// The methods below mirror the hooks the grid and form call.

func (e *Engine) BeginAt(date time.Time) (Snapshot, error) {
	return e.Dispatch(BeginDrag{Date: date})
}

func (e *Engine) ExtendTo(date time.Time) (Snapshot, error) {
	return e.Dispatch(ExtendDrag{Date: date})
}

func (e *Engine) EndDrag() (Snapshot, error) {
	return e.Dispatch(EndDrag{})
}

func (e *Engine) EditTask(id string) (Snapshot, error) {
	return e.Dispatch(OpenEditor{ID: id})
}

func (e *Engine) DeleteTask(id string) (Snapshot, error) {
	return e.Dispatch(DeleteTask{ID: id})
}

func (e *Engine) DragTask(id string) (Snapshot, error) {
	return e.Dispatch(StartTaskDrag{ID: id})
}

func (e *Engine) DropOn(date time.Time) (Snapshot, error) {
	return e.Dispatch(DropOnDay{Date: date})
}

func (e *Engine) Save(title string, c task.Category) (Snapshot, error) {
	return e.Dispatch(SubmitForm{Title: title, Category: c})
}

func (e *Engine) Cancel() (Snapshot, error) {
	return e.Dispatch(CancelForm{})
}

func (e *Engine) SetViewedMonth(date time.Time) (Snapshot, error) {
	return e.Dispatch(SetViewedMonth{Date: date})
}
