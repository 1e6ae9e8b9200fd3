package engine

import (
	"time"

	"calboard/internal/calendar"
	"calboard/internal/filter"
	"calboard/internal/selection"
	"calboard/internal/task"
)

// Form is the state of the task form: closed, creating over Range, or
// editing the task EditingID.
type Form struct {
	Open      bool
	EditingID string
	Title     string
	Category  task.Category
	Range     []time.Time
}

func (f Form) Editing() bool {
	return f.Open && f.EditingID != ""
}

// Snapshot is one immutable view of the engine. Later dispatches build new
// snapshots and never write into an old one.
type Snapshot struct {
	Tasks      []task.Task
	Filtered   []task.Task
	Selection  selection.Selection
	Filters    filter.State
	Month      time.Time
	Form       Form
	DraggingID string
	Now        time.Time
}

type Cell struct {
	calendar.Day
	Tasks []task.Task
}

// Grid lays out the viewed month with the filtered tasks on every day of
// their span.
func (s Snapshot) Grid() []Cell {
	days := calendar.MonthGrid(s.Month, s.Now)
	cells := make([]Cell, len(days))
	for i, d := range days {
		cells[i] = Cell{Day: d, Tasks: s.TasksOn(d.Date)}
	}
	return cells
}

func (s Snapshot) TasksOn(day time.Time) []task.Task {
	var out []task.Task
	for _, t := range s.Filtered {
		if t.Covers(day) {
			out = append(out, t)
		}
	}
	return out
}

func (s Snapshot) Task(id string) (task.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (s Snapshot) Dragging() (task.Task, bool) {
	if s.DraggingID == "" {
		return task.Task{}, false
	}
	return s.Task(s.DraggingID)
}

// Highlighted reports whether day is inside the running gesture or the
// range the form is about to use.
func (s Snapshot) Highlighted(day time.Time) bool {
	if s.Selection.Contains(day) {
		return true
	}
	if !s.Form.Open || len(s.Form.Range) == 0 {
		return false
	}
	first, last := s.Form.Range[0], s.Form.Range[len(s.Form.Range)-1]
	return calendar.DaysBetween(first, day) >= 0 && calendar.DaysBetween(day, last) >= 0
}
