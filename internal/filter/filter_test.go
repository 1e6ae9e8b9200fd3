package filter

import (
	"reflect"
	"testing"
	"time"

	"calboard/internal/task"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.Local)
}

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func fixture() []task.Task {
	return []task.Task{
		{ID: "report", Title: "Write report", Category: task.Review, Start: day(10), End: day(12)},
		{ID: "plan", Title: "Plan sprint", Category: task.ToDo, Start: day(4), End: day(4)},
		{ID: "ship", Title: "Ship Report v2", Category: task.InProgress, Start: day(20), End: day(22)},
		{ID: "old", Title: "Old retro", Category: task.Completed, Start: day(1), End: day(2)},
	}
}

func TestReviewOnlyScenario(t *testing.T) {
	tasks := []task.Task{{ID: "r", Title: "Write report", Category: task.Review, Start: day(10), End: day(12)}}
	s := Default().WithAllCategories(false).WithCategory(task.Review, true)

	got := Apply(tasks, s, day(1))
	if !reflect.DeepEqual(ids(got), []string{"r"}) {
		t.Fatalf("expected the review task, got %v", ids(got))
	}

	s = s.WithCategory(task.Review, false)
	got = Apply(tasks, s, day(1))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestAllCategoriesOffShowsNothing(t *testing.T) {
	s := Default().WithAllCategories(false)
	if got := Apply(fixture(), s, day(1)); len(got) != 0 {
		t.Fatalf("expected nothing when every category is off, got %v", ids(got))
	}
	if !s.NoneEnabled() || s.AllEnabled() {
		t.Fatalf("unexpected enabled bookkeeping")
	}
}

func TestDefaultPassesEverythingInOrder(t *testing.T) {
	got := Apply(fixture(), Default(), day(15))
	if !reflect.DeepEqual(ids(got), []string{"report", "plan", "ship", "old"}) {
		t.Fatalf("unexpected result %v", ids(got))
	}
}

func TestSearchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	got := Apply(fixture(), Default().WithSearch("  REPORT "), day(1))
	if !reflect.DeepEqual(ids(got), []string{"report", "ship"}) {
		t.Fatalf("unexpected search result %v", ids(got))
	}
	got = Apply(fixture(), Default().WithSearch("   "), day(1))
	if len(got) != 4 {
		t.Fatalf("blank search must pass everything, got %v", ids(got))
	}
}

func TestTimeWindow(t *testing.T) {
	now := day(4).Add(15 * time.Hour)
	cases := []struct {
		weeks int
		want  []string
	}{
		{0, []string{"report", "plan", "ship", "old"}},
		{1, []string{"report", "plan"}},
		{2, []string{"report", "plan"}},
		{3, []string{"report", "plan", "ship"}},
	}
	for _, tc := range cases {
		got := Apply(fixture(), Default().WithWeeks(tc.weeks), now)
		if !reflect.DeepEqual(ids(got), tc.want) {
			t.Fatalf("weeks=%d: expected %v, got %v", tc.weeks, tc.want, ids(got))
		}
	}
}

func TestTimeWindowBoundariesInclusive(t *testing.T) {
	tasks := []task.Task{
		{ID: "edge", Title: "edge", Category: task.ToDo, Start: day(8), End: day(8)},
		{ID: "early", Title: "early", Category: task.ToDo, Start: day(7), End: day(9)},
	}
	got := Apply(tasks, Default().WithWeeks(1), day(1))
	if !reflect.DeepEqual(ids(got), []string{"edge", "early"}) {
		t.Fatalf("expected both boundary tasks, got %v", ids(got))
	}
	got = Apply(tasks, Default().WithWeeks(1), day(8))
	if !reflect.DeepEqual(ids(got), []string{"edge"}) {
		t.Fatalf("expected only the task starting today, got %v", ids(got))
	}
}

func TestStagesIntersect(t *testing.T) {
	s := Default().WithCategory(task.InProgress, false).WithSearch("report").WithWeeks(3)
	got := Apply(fixture(), s, day(4))
	if !reflect.DeepEqual(ids(got), []string{"report"}) {
		t.Fatalf("expected intersection, got %v", ids(got))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	s := Default().WithCategory(task.ToDo, false).WithSearch("r")
	once := Apply(fixture(), s, day(4))
	twice := Apply(once, s, day(4))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent filter, got %v then %v", ids(once), ids(twice))
	}
}

func TestApplyDoesNotTouchInput(t *testing.T) {
	in := fixture()
	out := Apply(in, Default(), day(1))
	out[0].Title = "changed"
	if in[0].Title != "Write report" {
		t.Fatalf("filter output aliases the input slice")
	}
}

func TestApplyTracedReportsStagesInOrder(t *testing.T) {
	var names []string
	var kept []int
	s := Default().WithCategory(task.Completed, false).WithSearch("re").WithWeeks(1)
	ApplyTraced(fixture(), s, day(4), func(stage string, n int) {
		names = append(names, stage)
		kept = append(kept, n)
	})
	if !reflect.DeepEqual(names, []string{"category", "search", "time"}) {
		t.Fatalf("unexpected stage order %v", names)
	}
	if !reflect.DeepEqual(kept, []int{3, 2, 1}) {
		t.Fatalf("unexpected survivor counts %v", kept)
	}
}

func TestSummary(t *testing.T) {
	if lines := Default().Summary(); len(lines) != 0 || Default().Active() {
		t.Fatalf("default filters should be inactive, got %v", lines)
	}
	s := Default().WithCategory(task.ToDo, false).WithWeeks(1).WithSearch(" report ")
	want := []string{
		"Categories: In Progress, Review, Completed",
		"Time: Within 1 week",
		`Search: "report"`,
	}
	if got := s.Summary(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := Default().WithWeeks(2).Summary(); !reflect.DeepEqual(got, []string{"Time: Within 2 weeks"}) {
		t.Fatalf("unexpected plural summary %v", got)
	}
	if got := Default().WithWeeks(-3).Weeks; got != 0 {
		t.Fatalf("negative weeks must mean no limit, got %d", got)
	}
}
