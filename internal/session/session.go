// Package session ties a task store to its persistence adapter for the
// lifetime of one running process.
package session

import (
	"context"
	"sync"

	"gtodo/internal/persist"
	"gtodo/internal/service"
	"gtodo/internal/status"
	"gtodo/internal/store"
	"gtodo/internal/task"
)

var _ service.Service = (*Session)(nil)

// Session owns a Store hydrated from an Adapter. Every effective mutation
// queues exactly one save of the resulting collection; no-ops save nothing.
type Session struct {
	// mu spans mutate+enqueue so saves are queued in mutation order.
	mu      sync.Mutex
	store   *store.Store
	adapter *persist.Adapter
	loaded  persist.LoadResult
}

// Open loads the stored collection into a new store. A load failure is not
// returned as an error: the session starts empty and Warning reports why.
func Open(ctx context.Context, adapter *persist.Adapter, opts ...store.Option) *Session {
	// Failures are carried in res.Warning.
	res, _ := adapter.Load(ctx)
	s := &Session{
		store:   store.New(opts...),
		adapter: adapter,
		loaded:  res,
	}
	s.store.Replace(res.Tasks)
	return s
}

// Warning returns the load failure, if the session started empty because
// stored data could not be read.
func (s *Session) Warning() error { return s.loaded.Warning }

// Found reports whether anything was stored before this session.
func (s *Session) Found() bool { return s.loaded.Found }

// Adapter returns the persistence adapter.
func (s *Session) Adapter() *persist.Adapter { return s.adapter }

// Tasks implements service.Service.
func (s *Session) Tasks(ctx context.Context) ([]task.Task, error) {
	return s.store.Tasks(), nil
}

// Add implements service.Service.
func (s *Session) Add(ctx context.Context, text string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.store.Add(text)
	if err != nil {
		return task.Task{}, err
	}
	s.save()
	return t, nil
}

// Toggle implements service.Service.
func (s *Session) Toggle(ctx context.Context, id string) (task.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.store.Toggle(id)
	if ok {
		s.save()
	}
	return t, ok, nil
}

// Edit implements service.Service.
func (s *Session) Edit(ctx context.Context, id, text string) (task.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok, err := s.store.Edit(id, text)
	if err != nil {
		return task.Task{}, false, err
	}
	if ok {
		s.save()
	}
	return t, ok, nil
}

// Remove implements service.Service.
func (s *Session) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.store.Remove(id)
	if ok {
		s.save()
	}
	return ok, nil
}

// ClearCompleted implements service.Service.
func (s *Session) ClearCompleted(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.store.ClearCompleted()
	if n > 0 {
		s.save()
	}
	return n, nil
}

// Status implements service.Service.
func (s *Session) Status() status.Message {
	return s.adapter.Status().Current()
}

// Flush waits for queued saves.
func (s *Session) Flush(ctx context.Context) error {
	return s.adapter.Flush(ctx)
}

// Close implements service.Service.
func (s *Session) Close(ctx context.Context) error {
	return s.adapter.Close(ctx)
}

func (s *Session) save() {
	s.adapter.Save(s.store.Tasks())
}
