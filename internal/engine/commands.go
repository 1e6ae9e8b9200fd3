package engine

import (
	"time"

	"calboard/internal/task"
)

// Command is the closed set of inputs the engine reacts to.
type Command interface {
	command()
}

// Gesture over the grid.
type (
	BeginDrag  struct{ Date time.Time }
	ExtendDrag struct{ Date time.Time }
	EndDrag    struct{}
	ResetDrag  struct{}
)

// Task collection.
type (
	AddTask struct {
		Title    string
		Category task.Category
		Start    time.Time
		End      time.Time
	}
	UpdateTask struct {
		ID    string
		Patch task.Patch
	}
	DeleteTask struct{ ID string }
)

// Relocation by drag and drop.
type (
	StartTaskDrag  struct{ ID string }
	DropOnDay      struct{ Date time.Time }
	CancelTaskDrag struct{}
)

// Filters.
type (
	ToggleCategory struct {
		Category task.Category
		Enabled  bool
	}
	SetAllCategories struct{ Enabled bool }
	SetTimeWindow    struct{ Weeks int }
	SetSearch        struct{ Text string }
)

// Month navigation.
type (
	SetViewedMonth struct{ Date time.Time }
	ShiftMonth     struct{ Delta int }
	GoToday        struct{}
)

// Task form.
type (
	OpenEditor struct{ ID string }
	SubmitForm struct {
		Title    string
		Category task.Category
	}
	CancelForm struct{}
)

func (BeginDrag) command()        {}
func (ExtendDrag) command()       {}
func (EndDrag) command()          {}
func (ResetDrag) command()        {}
func (AddTask) command()          {}
func (UpdateTask) command()       {}
func (DeleteTask) command()       {}
func (StartTaskDrag) command()    {}
func (DropOnDay) command()        {}
func (CancelTaskDrag) command()   {}
func (ToggleCategory) command()   {}
func (SetAllCategories) command() {}
func (SetTimeWindow) command()    {}
func (SetSearch) command()        {}
func (SetViewedMonth) command()   {}
func (ShiftMonth) command()       {}
func (GoToday) command()          {}
func (OpenEditor) command()       {}
func (SubmitForm) command()       {}
func (CancelForm) command()       {}
