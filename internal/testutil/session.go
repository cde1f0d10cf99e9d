package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gtodo/internal/backend/memstore"
	"gtodo/internal/persist"
	"gtodo/internal/session"
	"gtodo/internal/status"
	"gtodo/internal/store"
)

// Epoch is the first instant handed out by a Clock.
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Clock is a deterministic clock that advances by Step on every call.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewClock creates a Clock starting at Epoch.
func NewClock(step time.Duration) *Clock {
	return &Clock{now: Epoch, Step: step}
}

// Now returns the current instant and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.Step)
	return t
}

// Peek returns the current instant without advancing.
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// SeqIDs returns an id generator yielding id-1, id-2, ...
func SeqIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// Env bundles a session with the fakes behind it.
type Env struct {
	Session *session.Session
	Backend *memstore.Store
	Clock   *Clock
}

// NewEnv opens a session over an in-memory backend with a minute-step clock
// and sequential ids. The session is closed when the test ends.
func NewEnv(t *testing.T, backend *memstore.Store) *Env {
	t.Helper()
	if backend == nil {
		backend = memstore.New()
	}
	clock := NewClock(time.Minute)
	board := status.NewBoard(time.Hour)
	adapter := persist.New(backend, persist.WithStatus(board))
	sess := session.Open(context.Background(), adapter,
		store.WithClock(clock.Now), store.WithIDs(SeqIDs()))
	t.Cleanup(func() {
		sess.Close(context.Background())
		board.Stop()
	})
	return &Env{Session: sess, Backend: backend, Clock: clock}
}

// Seed adds texts in order, so the last one ends up first.
func (e *Env) Seed(t *testing.T, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if _, err := e.Session.Add(context.Background(), text); err != nil {
			t.Fatalf("seed %q: %v", text, err)
		}
	}
}
