// Package persist mirrors the task collection into a storage.Backend.
//
// Loads happen once at startup. Saves are fire-and-forget: each call
// snapshots the collection, tags it with an increasing generation and queues
// it for a single writer goroutine, so storage sees writes in exactly the
// order the mutations happened. A write whose generation is not newer than
// the last committed one is dropped. A failed write is retried by the next
// Save (which carries newer state) or by the retry timer.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gtodo/internal/status"
	"gtodo/internal/storage"
	"gtodo/internal/task"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "@taskmanager_tasks"

const (
	// DefaultTimeout bounds a single load or save.
	DefaultTimeout = 5 * time.Second

	// DefaultRetryInterval is how long a failed save waits before retrying.
	DefaultRetryInterval = 30 * time.Second
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("persistence adapter closed")

// Error is a load or save failure. It is recoverable by design: the
// in-memory collection stays authoritative.
type Error struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LoadResult is the outcome of Load.
type LoadResult struct {
	Tasks []task.Task

	// Found is false on first run (nothing stored yet).
	Found bool

	// Warning is set when stored data could not be read and an empty
	// collection was substituted.
	Warning error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) { a.key = key }
}

// WithTimeout bounds each backend call. Non-positive keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRetryInterval sets the retry delay after a failed save; 0 disables
// timed retries.
func WithRetryInterval(d time.Duration) Option {
	return func(a *Adapter) { a.retryInterval = d }
}

// WithStatus publishes progress on b.
func WithStatus(b *status.Board) Option {
	return func(a *Adapter) { a.board = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

type snapshot struct {
	gen  uint64
	data []byte
}

// Adapter is the asynchronous load/save boundary for one storage key.
type Adapter struct {
	backend       storage.Backend
	key           string
	timeout       time.Duration
	retryInterval time.Duration
	board         *status.Board
	log           *slog.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	state     State
	queue     []snapshot
	gen       uint64
	committed uint64
	busy      bool
	pending   *snapshot
	lastErr   error
	retry     *time.Timer
	closed    bool
	done      chan struct{}
}

// New creates an Adapter and starts its writer goroutine.
func New(backend storage.Backend, opts ...Option) *Adapter {
	a := &Adapter{
		backend:       backend,
		key:           DefaultKey,
		timeout:       DefaultTimeout,
		retryInterval: DefaultRetryInterval,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.board == nil {
		a.board = status.NewBoard(status.DefaultClearAfter)
	}
	if a.log == nil {
		a.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.cond = sync.NewCond(&a.mu)
	go a.writer()
	return a
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Status returns the board progress is published on.
func (a *Adapter) Status() *status.Board { return a.board }

// State returns the lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Generation returns the generation of the most recent Save.
func (a *Adapter) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// Committed returns the generation of the last successful write.
func (a *Adapter) Committed() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.committed
}

// LastError returns the error of the most recent failed write that has not
// since been superseded by a successful one.
func (a *Adapter) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return nil
	}
	return a.lastErr
}

// Load reads the stored collection. It never leaves the adapter stuck: on
// any failure it returns an empty collection with Warning set, moves to
// Ready, and also returns the failure as *Error so callers can log it.
func (a *Adapter) Load(ctx context.Context) (LoadResult, error) {
	a.setState(Loading)
	a.board.Set(status.Busy, status.Loading)
	defer a.setState(Ready)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	data, err := a.get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		a.log.Debug("no saved tasks", "key", a.key)
		a.board.Set(status.Info, status.NoData)
		return LoadResult{Tasks: []task.Task{}}, nil
	}
	if err == nil {
		var tasks []task.Task
		tasks, err = task.Decode(data)
		if err == nil {
			a.log.Debug("loaded tasks", "key", a.key, "count", len(tasks))
			a.board.Set(status.OK, status.Loaded)
			return LoadResult{Tasks: tasks, Found: true}, nil
		}
	}

	perr := &Error{Op: "load", Key: a.key, Err: err}
	a.log.Warn("load failed, starting with an empty list", "key", a.key, "error", err)
	a.board.Set(status.Error, status.LoadFail)
	return LoadResult{Tasks: []task.Task{}, Found: errors.Is(err, task.ErrCorrupt), Warning: perr}, perr
}

// Save queues a write of tasks and returns its generation. It never blocks
// on storage.
func (a *Adapter) Save(tasks []task.Task) uint64 {
	data, err := task.Encode(tasks)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		a.log.Warn("save after close ignored", "key", a.key)
		return a.gen
	}
	if err != nil {
		// Unreachable for well-formed tasks; keep the previous state on disk.
		a.log.Error("encode failed", "error", err)
		return a.gen
	}
	a.gen++
	a.queue = append(a.queue, snapshot{gen: a.gen, data: data})
	a.cond.Broadcast()
	return a.gen
}

// Retry re-queues the latest failed snapshot, unless newer state is already
// queued, being written, or committed.
func (a *Adapter) Retry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.retry = nil
	if a.closed || a.pending == nil || a.busy || len(a.queue) > 0 {
		return
	}
	if a.pending.gen != a.gen || a.pending.gen <= a.committed {
		return
	}
	a.log.Debug("retrying save", "key", a.key, "generation", a.pending.gen)
	a.queue = append(a.queue, *a.pending)
	a.cond.Broadcast()
}

// Flush waits until every queued save has been attempted. It returns the
// failure of the latest snapshot if that write did not succeed, and
// ErrClosed once the adapter is closed.
func (a *Adapter) Flush(ctx context.Context) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return a.flush(ctx)
}

func (a *Adapter) flush(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		a.mu.Lock()
		for (len(a.queue) > 0 || a.busy) && !a.closed {
			a.cond.Wait()
		}
		a.mu.Unlock()
		close(idle)
	}()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := a.LastError(); err != nil {
		return &Error{Op: "save", Key: a.key, Err: err}
	}
	return nil
}

// Close flushes pending saves, then stops the writer and retry timer.
// Closing twice is a no-op.
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return nil
	}
	err := a.flush(ctx)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return err
	}
	a.closed = true
	if a.retry != nil {
		a.retry.Stop()
		a.retry = nil
	}
	a.cond.Broadcast()
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (a *Adapter) writer() {
	defer close(a.done)
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if a.closed {
			// Close only happens after Flush drained the queue or gave up.
			a.mu.Unlock()
			return
		}
		snap := a.queue[0]
		a.queue = a.queue[1:]
		if snap.gen <= a.committed {
			a.cond.Broadcast()
			a.mu.Unlock()
			continue
		}
		a.busy = true
		a.state = Saving
		a.mu.Unlock()

		a.board.Set(status.Busy, status.Saving)
		err := a.write(snap)
		// Publish before going idle so Flush callers observe the outcome.
		if err == nil {
			a.log.Debug("saved tasks", "key", a.key, "generation", snap.gen, "bytes", len(snap.data))
			a.board.Set(status.OK, status.Saved)
		} else {
			a.log.Warn("save failed", "key", a.key, "generation", snap.gen, "error", err)
			a.board.Set(status.Error, status.SaveFail)
		}

		a.mu.Lock()
		a.busy = false
		if err == nil {
			a.committed = snap.gen
			if a.pending != nil && a.pending.gen <= snap.gen {
				a.pending = nil
				a.lastErr = nil
				if a.retry != nil {
					a.retry.Stop()
					a.retry = nil
				}
			}
		} else {
			a.lastErr = err
			if a.pending == nil || snap.gen > a.pending.gen {
				s := snap
				a.pending = &s
			}
			if a.retryInterval > 0 && a.retry == nil {
				a.retry = time.AfterFunc(a.retryInterval, a.Retry)
			}
		}
		if len(a.queue) == 0 {
			a.state = Ready
		}
		a.cond.Broadcast()
		a.mu.Unlock()
	}
}

// get reads the key, giving up at ctx's deadline even if the driver does
// not watch ctx. An abandoned read finishes in the background.
func (a *Adapter) get(ctx context.Context) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := a.backend.Get(ctx, a.key)
		ch <- result{data, err}
	}()

	select {
	case r := <-ch:
		return r.data, timeoutError(r.err, a.timeout)
	case <-ctx.Done():
		return nil, timeoutError(ctx.Err(), a.timeout)
	}
}

// write is bounded only by the driver honouring ctx: abandoning a write
// could let it land after a newer one.
func (a *Adapter) write(snap snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	return timeoutError(a.backend.Set(ctx, a.key, snap.data), a.timeout)
}

func timeoutError(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", timeout, err)
	}
	return err
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}
