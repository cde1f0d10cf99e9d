// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"

	"gtodo/internal/status"
	"gtodo/internal/task"
)

// Service defines the interface for task operations.
// Commands and the HTTP API go through this interface and never touch
// storage directly, so the in-process session can be swapped for a remote
// backend without changing call sites.
//
// Unknown ids are not errors: Toggle, Edit and Remove report changed=false.
// Blank text yields a *task.ValidationError.
type Service interface {
	// Tasks returns the whole collection, newest first.
	Tasks(ctx context.Context) ([]task.Task, error)

	// Add creates a task and returns it.
	Add(ctx context.Context, text string) (task.Task, error)

	// Toggle flips a task's completion.
	Toggle(ctx context.Context, id string) (t task.Task, changed bool, err error)

	// Edit replaces a task's text.
	Edit(ctx context.Context, id, text string) (t task.Task, changed bool, err error)

	// Remove deletes a task. Callers confirm with the user first.
	Remove(ctx context.Context, id string) (changed bool, err error)

	// ClearCompleted deletes every completed task and returns the count.
	// Callers confirm with the user first.
	ClearCompleted(ctx context.Context) (removed int, err error)

	// Status returns the current persistence status line.
	Status() status.Message

	// Close flushes pending saves and releases the backend.
	Close(ctx context.Context) error
}
