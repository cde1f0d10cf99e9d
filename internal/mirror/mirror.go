// Package mirror pushes the local task collection into a Google Tasks list.
//
// The push is one-way: remote tasks are never deleted and nothing remote is
// copied back into the local collection.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gtodo/internal/task"
)

// PageSize is the number of open tasks requested per page.
const PageSize = 100

// maxPages bounds the open-task scan of a single list.
const maxPages = 100

var (
	// ErrNotFound is returned by a Remote for an unknown list or task.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned by a Remote when a list name matches
	// several lists.
	ErrAmbiguous = errors.New("ambiguous list name")
)

// ListError is a failure to resolve the target list. Failures after the
// list is known are never a ListError.
type ListError struct {
	Name string // empty for the default list
	Err  error
}

func (e *ListError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("default list: %v", e.Err)
	}
	return fmt.Sprintf("list %q: %v", e.Name, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// RemoteTask is a task as stored by the remote service.
type RemoteTask struct {
	ID       string
	Title    string
	Position string
	Status   string // "needsAction" or "completed"
}

// TaskList represents a remote task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}

// Remote is the subset of the Google Tasks API the mirror needs.
type Remote interface {
	DefaultList(ctx context.Context) (TaskList, error)
	ResolveList(ctx context.Context, name string) (TaskList, error)
	// ListOpenTasks returns one page (1-based) of open tasks. A page past
	// the end is empty.
	ListOpenTasks(ctx context.Context, listID string, page int) ([]RemoteTask, error)
	CreateTask(ctx context.Context, listID, title string) error
	CompleteTask(ctx context.Context, listID, taskID string) error
}

// Report summarizes a push.
type Report struct {
	List      TaskList
	Created   int
	Completed int
	Unchanged int
}

func (r Report) String() string {
	return fmt.Sprintf("%q: %d created, %d completed, %d unchanged",
		r.List.Title, r.Created, r.Completed, r.Unchanged)
}

// Push mirrors tasks into the list named listName, or the default list when
// listName is empty. Active tasks missing from the list's open tasks are
// created; completed tasks that are still open remotely get completed.
// Titles are matched case-insensitively, one remote task per local task.
func Push(ctx context.Context, remote Remote, listName string, tasks []task.Task) (Report, error) {
	var (
		list TaskList
		err  error
	)
	if strings.TrimSpace(listName) == "" {
		list, err = remote.DefaultList(ctx)
	} else {
		list, err = remote.ResolveList(ctx, listName)
	}
	if err != nil {
		return Report{}, &ListError{Name: strings.TrimSpace(listName), Err: err}
	}

	open, err := openTasks(ctx, remote, list.ID)
	if err != nil {
		return Report{List: list}, err
	}

	rep := Report{List: list}
	// Active tasks claim their remote counterpart first so a completed
	// duplicate never closes the copy an active task relies on.
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if _, ok := open.take(t.Text); ok {
			rep.Unchanged++
			continue
		}
		if err := remote.CreateTask(ctx, list.ID, t.Text); err != nil {
			return rep, fmt.Errorf("create %q: %w", t.Text, err)
		}
		rep.Created++
	}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		rt, ok := open.take(t.Text)
		if !ok {
			rep.Unchanged++
			continue
		}
		if err := remote.CompleteTask(ctx, list.ID, rt.ID); err != nil {
			return rep, fmt.Errorf("complete %q: %w", t.Text, err)
		}
		rep.Completed++
	}
	return rep, nil
}

type titleIndex map[string][]RemoteTask

func (idx titleIndex) take(title string) (RemoteTask, bool) {
	key := titleKey(title)
	q := idx[key]
	if len(q) == 0 {
		return RemoteTask{}, false
	}
	idx[key] = q[1:]
	return q[0], true
}

func titleKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func openTasks(ctx context.Context, remote Remote, listID string) (titleIndex, error) {
	idx := make(titleIndex)
	for page := 1; page <= maxPages; page++ {
		items, err := remote.ListOpenTasks(ctx, listID, page)
		if err != nil {
			return nil, fmt.Errorf("list open tasks: %w", err)
		}
		for _, rt := range items {
			key := titleKey(rt.Title)
			idx[key] = append(idx[key], rt)
		}
		if len(items) < PageSize {
			break
		}
	}
	return idx, nil
}
