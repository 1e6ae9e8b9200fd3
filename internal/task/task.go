package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"calboard/internal/calendar"
)

type Category int

const (
	ToDo Category = iota
	InProgress
	Review
	Completed

	NumCategories = 4
)

var categoryLabels = [NumCategories]string{"To Do", "In Progress", "Review", "Completed"}

func Categories() []Category {
	return []Category{ToDo, InProgress, Review, Completed}
}

func (c Category) Valid() bool {
	return c >= 0 && c < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryLabels[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts display labels ("In Progress") and compact forms
// ("in-progress", "inprogress", "done").
func ParseCategory(v string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "todo":
		return ToDo, nil
	case "inprogress", "doing":
		return InProgress, nil
	case "review":
		return Review, nil
	case "completed", "done":
		return Completed, nil
	}
	return 0, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", v)}
}

var (
	ErrInvalid  = errors.New("invalid task")
	ErrNotFound = errors.New("task not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

type Task struct {
	ID        string
	Title     string
	Category  Category
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

// Days is the length of the inclusive span.
func (t Task) Days() int {
	return calendar.DaysBetween(t.Start, t.End) + 1
}

// Duration is End minus Start in days; zero for a single-day task.
func (t Task) Duration() int {
	return calendar.DaysBetween(t.Start, t.End)
}

func (t Task) Covers(day time.Time) bool {
	return calendar.DaysBetween(t.Start, day) >= 0 && calendar.DaysBetween(day, t.End) >= 0
}

// Relocate moves the task so that it starts on day while keeping its length.
func (t Task) Relocate(day time.Time) (start, end time.Time) {
	start = calendar.Truncate(day)
	return start, calendar.AddDays(start, t.Duration())
}

// Validate checks the invariants every stored task satisfies.
func Validate(title string, c Category, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if !c.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %d", int(c))}
	}
	if start.IsZero() || end.IsZero() {
		return &ValidationError{Field: "dates", Reason: "start and end are required"}
	}
	if calendar.DaysBetween(start, end) < 0 {
		return &ValidationError{Field: "dates", Reason: fmt.Sprintf("start %s is after end %s",
			calendar.Format(start), calendar.Format(end))}
	}
	return nil
}

// Patch lists the fields an update changes; nil fields stay as they are.
type Patch struct {
	Title    *string
	Category *Category
	Start    *time.Time
	End      *time.Time
}

func (p Patch) TouchesDates() bool {
	return p.Start != nil || p.End != nil
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Category == nil && !p.TouchesDates()
}

// Apply merges p into t and validates the result. t itself is not modified.
func (p Patch) Apply(t Task) (Task, error) {
	out := t
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Start != nil {
		out.Start = calendar.Truncate(*p.Start)
	}
	if p.End != nil {
		out.End = calendar.Truncate(*p.End)
	}
	if err := Validate(out.Title, out.Category, out.Start, out.End); err != nil {
		return t, err
	}
	return out, nil
}

func Ptr[T any](v T) *T {
	return &v
}
