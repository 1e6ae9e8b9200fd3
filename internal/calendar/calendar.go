// Package calendar holds the local calendar-day arithmetic shared by the
// engine and its presentation layers. Every value it returns is a local
// midnight; time-of-day never survives.
package calendar

import (
	"time"
)

const LayoutISO = "2006-01-02"

type Day struct {
	Date           time.Time
	IsCurrentMonth bool
	IsToday        bool
}

// Truncate drops the time-of-day, keeping the calendar day in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b. The arithmetic runs on Unix
// seconds of UTC midnights, so DST and the time.Duration range do not apply.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((ub.Unix() - ua.Unix()) / 86400)
}

// Range returns every day from min(a, b) to max(a, b) inclusive, ascending.
func Range(a, b time.Time) []time.Time {
	start, end := Truncate(a), Truncate(b)
	if end.Before(start) {
		start, end = end, start
	}
	n := DaysBetween(start, end)
	out := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// MonthGrid lays out the month containing month as whole Sunday-first weeks,
// padding with days of the neighbouring months.
func MonthGrid(month, today time.Time) []Day {
	first := FirstOfMonth(month)
	last := AddDays(first, DaysInMonth(first)-1)
	start := AddDays(first, -int(first.Weekday()))
	end := AddDays(last, int(time.Saturday-last.Weekday()))

	days := make([]Day, 0, 42)
	for _, d := range Range(start, end) {
		days = append(days, Day{
			Date:           d,
			IsCurrentMonth: d.Month() == first.Month(),
			IsToday:        SameDay(d, today),
		})
	}
	return days
}

func WeekdayNames() []string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
}

func MonthName(t time.Time) string {
	return t.Format("January 2006")
}

// ParseDate reads YYYY-MM-DD as a local calendar day.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(LayoutISO, v, time.Local)
}

func Format(t time.Time) string {
	return t.Format(LayoutISO)
}
