package task

import (
	"errors"
	"testing"
	"time"

	"calboard/internal/calendar"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.Local)
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"To Do":       ToDo,
		"todo":        ToDo,
		"In Progress": InProgress,
		"in-progress": InProgress,
		"REVIEW":      Review,
		"Completed":   Completed,
		"done":        Completed,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseCategory("someday"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestCategoryTextRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		b, err := c.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", c, err)
		}
		var got Category
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %q: %v", b, err)
		}
		if got != c {
			t.Fatalf("expected %v, got %v", c, got)
		}
	}
	if _, err := Category(9).MarshalText(); err == nil {
		t.Fatalf("expected error for out-of-range category")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("Write report", Review, day(10), day(12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate("same day", ToDo, day(10), day(10)); err != nil {
		t.Fatalf("single-day task rejected: %v", err)
	}

	var verr *ValidationError
	err := Validate("   ", ToDo, day(10), day(12))
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	err = Validate("x", ToDo, day(12), day(10))
	if !errors.As(err, &verr) || verr.Field != "dates" {
		t.Fatalf("expected dates validation error, got %v", err)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected errors.Is(err, ErrInvalid)")
	}
	if err := Validate("x", Category(7), day(10), day(10)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid category error, got %v", err)
	}
}

func TestRelocateKeepsDuration(t *testing.T) {
	tk := Task{Title: "three days", Start: day(5), End: day(7)}
	if tk.Duration() != 2 || tk.Days() != 3 {
		t.Fatalf("expected duration 2 / 3 days, got %d / %d", tk.Duration(), tk.Days())
	}
	start, end := tk.Relocate(day(20).Add(15 * time.Hour))
	if !calendar.SameDay(start, day(20)) || !calendar.SameDay(end, day(22)) {
		t.Fatalf("expected 20..22, got %v..%v", start, end)
	}
	if start.Hour() != 0 {
		t.Fatalf("expected relocated start at midnight, got %v", start)
	}
}

func TestCovers(t *testing.T) {
	tk := Task{Start: day(10), End: day(12)}
	for d, want := range map[int]bool{9: false, 10: true, 11: true, 12: true, 13: false} {
		if got := tk.Covers(day(d).Add(9 * time.Hour)); got != want {
			t.Fatalf("day %d: expected %v, got %v", d, want, got)
		}
	}
}

func TestPatchApply(t *testing.T) {
	orig := Task{ID: "a", Title: "old", Category: ToDo, Start: day(10), End: day(12)}

	got, err := Patch{Title: Ptr("  new  ")}.Apply(orig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "new" || got.Category != ToDo || !got.Start.Equal(orig.Start) {
		t.Fatalf("unexpected merge result %+v", got)
	}
	if orig.Title != "old" {
		t.Fatalf("input task mutated")
	}

	if _, err := (Patch{Start: Ptr(day(13))}).Apply(orig); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected inverted range to be rejected, got %v", err)
	}
	if _, err := (Patch{Title: Ptr("")}).Apply(orig); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected blank title to be rejected, got %v", err)
	}
	if !(Patch{}).Empty() {
		t.Fatalf("expected zero patch to be empty")
	}
}

func TestRelocateWideSpan(t *testing.T) {
	start := time.Date(224, time.March, 10, 0, 0, 0, 0, time.Local)
	tk := Task{Title: "typo", Category: ToDo, Start: start, End: day(12)}
	if tk.Days() != 657440 {
		t.Fatalf("expected 657440 days, got %d", tk.Days())
	}
	s, e := tk.Relocate(day(20))
	if !s.Equal(day(20)) || calendar.DaysBetween(s, e) != tk.Duration() {
		t.Fatalf("expected relocation to keep %d days, got %v..%v", tk.Duration(), s, e)
	}
}
