// Package memstore is an in-process storage.Backend used by tests and by
// --storage memory.
package memstore

import (
	"context"
	"sync"

	"gtodo/internal/storage"
)

// Store is a map-backed storage.Backend.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int

	// Error injection for testing
	GetErr error
	SetErr error

	// SetHook, if non-nil, runs before every Set (e.g. to add latency).
	SetHook func(key string, value []byte)
}

// New creates an empty Store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get implements storage.Backend.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements storage.Backend.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.RLock()
	hook := s.SetHook
	s.mu.RUnlock()
	if hook != nil {
		hook(key, value)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Put seeds a value directly (for testing).
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
}

// FailSets makes every following Set return err (nil to heal).
func (s *Store) FailSets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetErr = err
}

// Close implements storage.Backend.
func (s *Store) Close() error { return nil }
