// Package store owns the canonical, newest-first task collection.
package store

import (
	"errors"
	"sync"
	"time"

	"gtodo/internal/task"
)

// ErrNothingToClear is reported when ClearCompleted finds no completed tasks.
// It is informational, not a failure.
var ErrNothingToClear = errors.New("no completed tasks to clear")

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.nextID = next }
}

// Store is an in-memory ordered collection of tasks. All operations are
// atomic with respect to each other. Unknown ids are silently ignored.
type Store struct {
	mu     sync.RWMutex
	tasks  []task.Task
	now    func() time.Time
	nextID func() string
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		nextID: task.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace hydrates the store with tasks, typically from persistence.
func (s *Store) Replace(tasks []task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]task.Task(nil), tasks...)
}

// Tasks returns a copy of the collection, newest first.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Find returns the task with id.
func (s *Store) Find(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Add prepends a new task. Blank text yields a *task.ValidationError and
// leaves the collection untouched.
func (s *Store) Add(text string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	for s.indexOf(id) >= 0 {
		id = s.nextID()
	}
	t, err := task.New(id, text, s.now())
	if err != nil {
		return task.Task{}, err
	}
	s.tasks = append([]task.Task{t}, s.tasks...)
	return t, nil
}

// Toggle flips the completion of the task with id.
func (s *Store) Toggle(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	t := &s.tasks[i]
	t.Completed = !t.Completed
	t.Touch(s.now())
	return *t, true
}

// Edit replaces the text of the task with id. Validation happens before the
// lookup, so blank text is rejected even for unknown ids.
func (s *Store) Edit(id, text string) (task.Task, bool, error) {
	text, err := task.NormalizeText(text)
	if err != nil {
		return task.Task{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false, nil
	}
	t := &s.tasks[i]
	t.Text = text
	t.Touch(s.now())
	return *t, true, nil
}

// Remove deletes the task with id.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return true
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed > 0 {
		s.tasks = kept
	}
	return removed
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
