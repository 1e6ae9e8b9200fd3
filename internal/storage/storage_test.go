package storage

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"calboard/internal/task"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.Local)
}

func sampleTasks() []task.Task {
	return []task.Task{
		{
			ID:        "a1",
			Title:     "Write report",
			Category:  task.Review,
			Start:     day(10),
			End:       day(12),
			CreatedAt: time.Date(2024, time.March, 1, 9, 30, 15, 123000000, time.UTC),
		},
		{
			ID:        "b2",
			Title:     "Ship release",
			Category:  task.InProgress,
			Start:     day(14),
			End:       day(14),
			CreatedAt: time.Date(2024, time.March, 2, 18, 0, 0, 0, time.UTC),
		},
	}
}

func newTestAdapter(slot Slot) (*Adapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewAdapter(slot, "", log.New(&buf, "", 0)), &buf
}

func assertSameTasks(t *testing.T, got, want []task.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Title != w.Title || g.Category != w.Category {
			t.Fatalf("task %d: expected %+v, got %+v", i, w, g)
		}
		if !g.Start.Equal(w.Start) || !g.End.Equal(w.End) {
			t.Fatalf("task %d: expected dates %v..%v, got %v..%v", i, w.Start, w.End, g.Start, g.End)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Fatalf("task %d: expected createdAt %v, got %v", i, w.CreatedAt, g.CreatedAt)
		}
	}
}

func TestRoundTripAcrossBackends(t *testing.T) {
	dir := t.TempDir()
	diskvSlot, err := OpenDiskv(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	sqliteSlot, err := OpenSQLite(filepath.Join(dir, "db", "calboard.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqliteSlot.Close()

	backends := map[string]Slot{
		"memory": NewMemory(),
		"diskv":  diskvSlot,
		"sqlite": sqliteSlot,
	}
	for name, slot := range backends {
		t.Run(name, func(t *testing.T) {
			a, _ := newTestAdapter(slot)
			want := sampleTasks()
			if err := a.Save(want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got := a.Load()
			assertSameTasks(t, got, want)
			if got[0].Start.IsZero() || got[0].Start.Hour() != 0 {
				t.Fatalf("expected local midnight date value, got %v", got[0].Start)
			}

			// overwrite, not append
			if err := a.Save(want[:1]); err != nil {
				t.Fatalf("save: %v", err)
			}
			assertSameTasks(t, a.Load(), want[:1])
		})
	}
}

func TestDiskvPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	first, err := OpenDiskv(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a, _ := newTestAdapter(first)
	if err := a.Save(sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := OpenDiskv(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b, _ := newTestAdapter(second)
	assertSameTasks(t, b.Load(), sampleTasks())
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	a, logs := newTestAdapter(NewMemory())
	got := a.Load()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", got)
	}
	if !strings.Contains(logs.String(), "no saved tasks") {
		t.Fatalf("expected missing key to be logged, got %q", logs.String())
	}
}

func TestLoadCorruptPayloadIsEmpty(t *testing.T) {
	for _, payload := range []string{`{not json`, `{"id":"a1"}`, `"tasks"`, `   `} {
		slot := NewMemory()
		slot.Write(DefaultKey, []byte(payload))
		a, logs := newTestAdapter(slot)
		if got := a.Load(); len(got) != 0 {
			t.Fatalf("%q: expected empty collection, got %d tasks", payload, len(got))
		}
		if logs.Len() == 0 {
			t.Fatalf("%q: expected the failure to be logged", payload)
		}
	}
}

func TestLoadSkipsBadRecords(t *testing.T) {
	payload := `[
		{"id":"ok1","title":"Write report","startDate":"2024-03-10","endDate":"2024-03-12","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"bad-date","title":"x","startDate":"March 10","endDate":"2024-03-12","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"inverted","title":"x","startDate":"2024-03-12","endDate":"2024-03-10","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"bad-cat","title":"x","startDate":"2024-03-10","endDate":"2024-03-12","category":"Someday","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"","title":"no id","startDate":"2024-03-10","endDate":"2024-03-12","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"blank","title":"  ","startDate":"2024-03-10","endDate":"2024-03-12","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"bad-created","title":"x","startDate":"2024-03-10","endDate":"2024-03-12","category":"Review","createdAt":"yesterday"},
		42,
		{"id":"ok1","title":"dup","startDate":"2024-03-10","endDate":"2024-03-12","category":"Review","createdAt":"2024-03-01T09:30:15Z"},
		{"id":"ok2","title":"Plan","startDate":"2024-03-14","endDate":"2024-03-14","category":"To Do","createdAt":"2024-03-02T18:00:00Z"}
	]`
	slot := NewMemory()
	slot.Write(DefaultKey, []byte(payload))
	a, logs := newTestAdapter(slot)

	got := a.Load()
	if len(got) != 2 || got[0].ID != "ok1" || got[1].ID != "ok2" {
		t.Fatalf("expected ok1 and ok2, got %+v", got)
	}
	if n := strings.Count(logs.String(), "skip record"); n != 8 {
		t.Fatalf("expected 8 skipped records, got %d: %s", n, logs.String())
	}
}

func TestLoadAcceptsDatetimeDates(t *testing.T) {
	start := day(10).Add(9 * time.Hour)
	payload := `[{"id":"legacy","title":"Legacy","startDate":"` + start.Format(time.RFC3339Nano) +
		`","endDate":"2024-03-11","category":"Completed","createdAt":"2024-03-01T09:30:15.000Z"}]`
	slot := NewMemory()
	slot.Write(DefaultKey, []byte(payload))
	a, _ := newTestAdapter(slot)

	got := a.Load()
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if !got[0].Start.Equal(day(10)) {
		t.Fatalf("expected start reduced to %v, got %v", day(10), got[0].Start)
	}
}

func TestSQLiteUpdatedAt(t *testing.T) {
	slot, err := OpenSQLite(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer slot.Close()

	if _, err := slot.Read("nope"); err == nil {
		t.Fatalf("expected missing key error")
	}
	before := time.Now().Add(-time.Second)
	if err := slot.Write("k", []byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	updated, err := slot.UpdatedAt("k")
	if err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if updated.Before(before.Truncate(time.Second)) {
		t.Fatalf("expected recent timestamp, got %v", updated)
	}
}

func TestSQLiteReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.db")
	slot, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := slot.Write("k", []byte("[1]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	slot.Close()

	slot, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer slot.Close()
	got, err := slot.Read("k")
	if err != nil || string(got) != "[1]" {
		t.Fatalf("expected value to survive reopen, got %q, %v", got, err)
	}
	if _, err := slot.UpdatedAt("k"); err != nil {
		t.Fatalf("expected updated_at after reopen: %v", err)
	}
}

func TestOpenSlotBackends(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{"", BackendDiskv, BackendMemory} {
		s, err := OpenSlot(backend, dir)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", backend, err)
		}
		s.Close()
	}
	s, err := OpenSlot(BackendSQLite, filepath.Join(dir, "x.db"))
	if err != nil {
		t.Fatalf("sqlite: unexpected error: %v", err)
	}
	s.Close()
	if _, err := OpenSlot("redis", dir); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
