// Package tasks owns the task collection. Every mutation replaces the
// backing slice instead of writing into it, so slices handed out by List
// never change underneath their holders.
package tasks

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"calboard/internal/calendar"
	"calboard/internal/task"
)

type Persister interface {
	Load() []task.Task
	Save(tasks []task.Task) error
}

type Store struct {
	tasks   []task.Task
	persist Persister
	newID   func() string
	now     func() time.Time
	logger  *log.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New builds a store seeded from p. A nil Persister keeps everything in
// memory.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persist: p,
		newID:   uuid.NewString,
		now:     time.Now,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if p != nil {
		s.tasks = p.Load()
	}
	return s
}

func (s *Store) Add(title string, c task.Category, start, end time.Time) (task.Task, error) {
	if err := task.Validate(title, c, start, end); err != nil {
		return task.Task{}, err
	}
	t := task.Task{
		ID:        s.freshID(),
		Title:     strings.TrimSpace(title),
		Category:  c,
		Start:     calendar.Truncate(start),
		End:       calendar.Truncate(end),
		CreatedAt: s.now(),
	}
	next := make([]task.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	s.tasks = append(next, t)
	s.save()
	return t, nil
}

func (s *Store) Update(id string, p task.Patch) (task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("update %s: %w", id, task.ErrNotFound)
	}
	if p.Empty() {
		return s.tasks[i], nil
	}
	updated, err := p.Apply(s.tasks[i])
	if err != nil {
		return task.Task{}, err
	}
	next := s.List()
	next[i] = updated
	s.tasks = next
	s.save()
	return updated, nil
}

// Remove deletes id and reports whether it existed. Unknown ids are not an
// error.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	s.save()
	return true
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id string) (task.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
}

// save writes through to the persister. A failed write is logged and the
// in-memory collection stays authoritative.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.tasks); err != nil {
		s.logger.Printf("persist %d tasks: %v", len(s.tasks), err)
	}
}
