// Package printer renders tasks and months for the command line.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	"calboard/internal/calendar"
	"calboard/internal/task"
)

type Printer struct {
	Out    io.Writer
	ShowID bool
}

func New(out io.Writer) *Printer {
	return &Printer{Out: out}
}

// DisableColorUnlessTerminal turns color off when f is not a terminal.
func DisableColorUnlessTerminal(f *os.File) {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		color.NoColor = true
	}
}

var categoryColors = [task.NumCategories]*color.Color{
	task.ToDo:       color.New(color.FgWhite),
	task.InProgress: color.New(color.FgYellow),
	task.Review:     color.New(color.FgCyan),
	task.Completed:  color.New(color.FgGreen, color.Faint),
}

func CategoryLabel(c task.Category) string {
	if !c.Valid() {
		return c.String()
	}
	return categoryColors[c].Sprint(c.String())
}

func (p *Printer) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(p.Out, title)
}

// Filters prints one faint line per active filter.
func (p *Printer) Filters(lines []string) {
	f := color.New(color.Faint, color.Italic)
	for _, l := range lines {
		_, _ = f.Fprintln(p.Out, l)
	}
}

func (p *Printer) Tasks(tasks []task.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(p.Out, " none\n\n")
		return
	}

	b := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	header := []interface{}{b.Sprint("Start"), b.Sprint("End"), b.Sprint("Category"), b.Sprint("Title")}
	if p.ShowID {
		header = append([]interface{}{b.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, t := range tasks {
		row := []interface{}{calendar.Format(t.Start), calendar.Format(t.End), CategoryLabel(t.Category), t.Title}
		if p.ShowID {
			row = append([]interface{}{y.Sprint(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
	_, _ = fmt.Fprintln(p.Out)
}

// Task prints a single task as a key/value block.
func (p *Printer) Task(t task.Task) {
	tbl := uitable.New()
	tbl.Separator = " : "
	tbl.AddRow("ID", t.ID)
	tbl.AddRow("Title", t.Title)
	tbl.AddRow("Category", CategoryLabel(t.Category))
	tbl.AddRow("Start", calendar.Format(t.Start))
	tbl.AddRow("End", calendar.Format(t.End))
	tbl.AddRow("Days", t.Days())
	_, _ = fmt.Fprintln(p.Out, tbl)
}

const weekWidth = len("Su Mo Tu We Th Fr Sa")

// Month prints a Sunday-first calendar of month. Days with tasks are bold,
// today is underlined, and a per-day count table follows.
func (p *Printer) Month(month, today time.Time, tasks []task.Task) {
	tf := color.New(color.FgWhite, color.Italic)
	name := calendar.MonthName(month)
	mid := (weekWidth - len(name)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(p.Out, "%s%s\n", strings.Repeat(" ", mid), name)

	var head []string
	for _, w := range calendar.WeekdayNames() {
		head = append(head, w[:2])
	}
	_, _ = color.New(color.Faint).Fprintln(p.Out, strings.Join(head, " "))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	counts := make(map[int]int)
	for i, d := range calendar.MonthGrid(month, today) {
		if !d.IsCurrentMonth {
			_, _ = fmt.Fprint(p.Out, "   ")
		} else {
			n := countOn(tasks, d.Date)
			counts[d.Date.Day()] = n
			c := l1
			if n > 0 {
				c = l2
			}
			if d.IsToday {
				c = color.New(color.Bold, color.Underline)
			}
			_, _ = c.Fprintf(p.Out, "%2d ", d.Date.Day())
		}
		if i%7 == 6 {
			_, _ = fmt.Fprint(p.Out, "\n")
		}
	}
	_, _ = fmt.Fprint(p.Out, "\n")

	tbl := uitable.New()
	tbl.Separator = "  "
	for day := 1; day <= calendar.DaysInMonth(month); day++ {
		n := counts[day]
		if n == 0 {
			continue
		}
		date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
		tbl.AddRow(calendar.Format(date), plural(n, "task"))
	}
	if len(tbl.Rows) > 0 {
		_, _ = fmt.Fprintln(p.Out, tbl)
	}
}

func countOn(tasks []task.Task, day time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.Covers(day) {
			n++
		}
	}
	return n
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
