// Package storage persists the task collection into a single named key of a
// durable key-value slot. Loading never fails: anything that cannot be read
// is logged and skipped.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"calboard/internal/calendar"
	"calboard/internal/task"
)

const DefaultKey = "tasks"

// Slot is a durable key-value store. Read reports a missing key with an
// error matching os.ErrNotExist.
type Slot interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

type SlotCloser interface {
	Slot
	io.Closer
}

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenSlot opens the backend named in the config. path is a directory for
// diskv and a database file for sqlite; memory ignores it.
func OpenSlot(backend, path string) (SlotCloser, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendDiskv:
		return OpenDiskv(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", backend)
}

type record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

func encode(t task.Task) record {
	return record{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: calendar.Format(t.Start),
		EndDate:   calendar.Format(t.End),
		Category:  t.Category.String(),
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (r record) decode() (task.Task, error) {
	if strings.TrimSpace(r.ID) == "" {
		return task.Task{}, errors.New("missing id")
	}
	cat, err := task.ParseCategory(r.Category)
	if err != nil {
		return task.Task{}, err
	}
	start, err := parseDay(r.StartDate)
	if err != nil {
		return task.Task{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := parseDay(r.EndDate)
	if err != nil {
		return task.Task{}, fmt.Errorf("endDate: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("createdAt: %w", err)
	}
	if err := task.Validate(r.Title, cat, start, end); err != nil {
		return task.Task{}, err
	}
	return task.Task{
		ID:        r.ID,
		Title:     strings.TrimSpace(r.Title),
		Category:  cat,
		Start:     start,
		End:       end,
		CreatedAt: created.Local(),
	}, nil
}

// parseDay accepts YYYY-MM-DD and full RFC3339 timestamps; the latter are
// reduced to their local calendar day.
func parseDay(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if d, err := calendar.ParseDate(v); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", v)
	}
	return calendar.Truncate(t.Local()), nil
}

type Adapter struct {
	slot   Slot
	key    string
	logger *log.Logger
}

func NewAdapter(slot Slot, key string, logger *log.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(os.Stderr, "storage: ", log.LstdFlags)
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

func (a *Adapter) Key() string {
	return a.key
}

// Load reads the collection. A missing key, an unreadable slot or a payload
// that is not an array all yield an empty collection; records that fail to
// decode are skipped one by one.
func (a *Adapter) Load() []task.Task {
	tasks := []task.Task{}
	data, err := a.slot.Read(a.key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.logger.Printf("no saved tasks under %q, starting empty", a.key)
		} else {
			a.logger.Printf("read %q: %v", a.key, err)
		}
		return tasks
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		a.logger.Printf("slot %q is empty, starting empty", a.key)
		return tasks
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		a.logger.Printf("decode %q: %v", a.key, err)
		return tasks
	}

	seen := make(map[string]struct{}, len(raw))
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			a.logger.Printf("skip record %d: %v", i, err)
			continue
		}
		t, err := r.decode()
		if err != nil {
			a.logger.Printf("skip record %d (%s): %v", i, r.ID, err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			a.logger.Printf("skip record %d: duplicate id %s", i, t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks
}

// Save overwrites the slot with the full collection.
func (a *Adapter) Save(tasks []task.Task) error {
	recs := make([]record, 0, len(tasks))
	for _, t := range tasks {
		recs = append(recs, encode(t))
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("storage: encode tasks: %w", err)
	}
	if err := a.slot.Write(a.key, data); err != nil {
		return fmt.Errorf("storage: write %q: %w", a.key, err)
	}
	return nil
}
