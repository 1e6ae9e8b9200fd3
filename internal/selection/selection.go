// Package selection tracks a click-drag gesture over calendar cells.
//
// A Selection is a value: every transition returns a new Selection and the
// Dates slice of an existing value is never written to, so snapshots holding
// an older Selection stay intact.
package selection

import (
	"time"

	"calboard/internal/calendar"
)

type State int

const (
	Idle State = iota
	Selecting
)

func (s State) String() string {
	if s == Selecting {
		return "selecting"
	}
	return "idle"
}

type Selection struct {
	Selecting bool
	Anchor    time.Time
	Cursor    time.Time
	Dates     []time.Time
}

func (s Selection) State() State {
	if s.Selecting {
		return Selecting
	}
	return Idle
}

// Begin starts a gesture at date. A second Begin while a gesture is running
// is ignored.
func (s Selection) Begin(date time.Time) Selection {
	if s.Selecting {
		return s
	}
	d := calendar.Truncate(date)
	return Selection{
		Selecting: true,
		Anchor:    d,
		Cursor:    d,
		Dates:     []time.Time{d},
	}
}

// Extend moves the cursor to date and regenerates the full range between
// anchor and cursor. Stray calls while idle are ignored.
func (s Selection) Extend(date time.Time) Selection {
	if !s.Selecting {
		return s
	}
	d := calendar.Truncate(date)
	return Selection{
		Selecting: true,
		Anchor:    s.Anchor,
		Cursor:    d,
		Dates:     calendar.Range(s.Anchor, d),
	}
}

// End finishes the gesture and hands back the dates it covered. Whether
// those dates become a task is up to the caller.
func (s Selection) End() (Selection, []time.Time) {
	if !s.Selecting {
		return Selection{}, nil
	}
	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)
	return Selection{}, dates
}

func (s Selection) Reset() Selection {
	return Selection{}
}

func (s Selection) Len() int {
	return len(s.Dates)
}

func (s Selection) Start() (time.Time, bool) {
	if len(s.Dates) == 0 {
		return time.Time{}, false
	}
	return s.Dates[0], true
}

func (s Selection) Last() (time.Time, bool) {
	if len(s.Dates) == 0 {
		return time.Time{}, false
	}
	return s.Dates[len(s.Dates)-1], true
}

func (s Selection) Contains(day time.Time) bool {
	first, ok := s.Start()
	if !ok {
		return false
	}
	last, _ := s.Last()
	return calendar.DaysBetween(first, day) >= 0 && calendar.DaysBetween(day, last) >= 0
}
