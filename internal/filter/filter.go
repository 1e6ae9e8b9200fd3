// Package filter derives the visible subset of tasks. Nothing here is
// cached: Apply is recomputed from scratch on every read.
package filter

import (
	"fmt"
	"strings"
	"time"

	"calboard/internal/calendar"
	"calboard/internal/task"
)

// State is the standing view configuration. It is a plain value and safe to
// copy between snapshots.
type State struct {
	Enabled [task.NumCategories]bool
	// Weeks limits the view to tasks starting within the next N weeks.
	// Zero means no limit.
	Weeks  int
	Search string
}

func Default() State {
	var s State
	for i := range s.Enabled {
		s.Enabled[i] = true
	}
	return s
}

func (s State) CategoryEnabled(c task.Category) bool {
	return c.Valid() && s.Enabled[c]
}

func (s State) WithCategory(c task.Category, on bool) State {
	if c.Valid() {
		s.Enabled[c] = on
	}
	return s
}

func (s State) WithAllCategories(on bool) State {
	for i := range s.Enabled {
		s.Enabled[i] = on
	}
	return s
}

func (s State) AllEnabled() bool {
	for _, on := range s.Enabled {
		if !on {
			return false
		}
	}
	return true
}

func (s State) NoneEnabled() bool {
	for _, on := range s.Enabled {
		if on {
			return false
		}
	}
	return true
}

func (s State) WithWeeks(n int) State {
	if n < 0 {
		n = 0
	}
	s.Weeks = n
	return s
}

func (s State) WithSearch(text string) State {
	s.Search = text
	return s
}

func (s State) Active() bool {
	return !s.AllEnabled() || s.Weeks > 0 || strings.TrimSpace(s.Search) != ""
}

// Summary describes the active filters, one line each.
func (s State) Summary() []string {
	var lines []string
	if !s.AllEnabled() {
		var names []string
		for _, c := range task.Categories() {
			if s.Enabled[c] {
				names = append(names, c.String())
			}
		}
		if len(names) == 0 {
			names = append(names, "none")
		}
		lines = append(lines, "Categories: "+strings.Join(names, ", "))
	}
	if s.Weeks > 0 {
		plural := "s"
		if s.Weeks == 1 {
			plural = ""
		}
		lines = append(lines, fmt.Sprintf("Time: Within %d week%s", s.Weeks, plural))
	}
	if q := strings.TrimSpace(s.Search); q != "" {
		lines = append(lines, fmt.Sprintf("Search: %q", q))
	}
	return lines
}

type stage struct {
	name string
	keep func(task.Task) bool
}

// stages are built in a fixed order: category, search, time window.
func (s State) stages(now time.Time) []stage {
	out := []stage{{
		name: "category",
		keep: func(t task.Task) bool { return s.CategoryEnabled(t.Category) },
	}}
	if q := strings.ToLower(strings.TrimSpace(s.Search)); q != "" {
		out = append(out, stage{
			name: "search",
			keep: func(t task.Task) bool { return strings.Contains(strings.ToLower(t.Title), q) },
		})
	}
	if s.Weeks > 0 {
		from := calendar.Truncate(now)
		to := calendar.AddDays(from, 7*s.Weeks)
		out = append(out, stage{
			name: "time",
			keep: func(t task.Task) bool {
				return calendar.DaysBetween(from, t.Start) >= 0 && calendar.DaysBetween(t.Start, to) >= 0
			},
		})
	}
	return out
}

// Apply keeps the tasks every stage accepts, preserving input order. The
// input slice is never modified.
func Apply(tasks []task.Task, s State, now time.Time) []task.Task {
	return ApplyTraced(tasks, s, now, nil)
}

// ApplyTraced is Apply with a callback reporting how many tasks survive
// each stage, in stage order.
func ApplyTraced(tasks []task.Task, s State, now time.Time, trace func(stage string, kept int)) []task.Task {
	cur := tasks
	for _, st := range s.stages(now) {
		next := make([]task.Task, 0, len(cur))
		for _, t := range cur {
			if st.keep(t) {
				next = append(next, t)
			}
		}
		if trace != nil {
			trace(st.name, len(next))
		}
		cur = next
	}
	return cur
}
