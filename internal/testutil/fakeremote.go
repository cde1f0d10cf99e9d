// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gtodo/internal/mirror"
)

// DefaultListID is the ID used for the default list.
const DefaultListID = "@default"

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = mirror.ErrNotFound

// ErrAmbiguous is returned when multiple matches are found.
var ErrAmbiguous = mirror.ErrAmbiguous

// FakeRemote is an in-memory implementation of mirror.Remote for testing.
type FakeRemote struct {
	mu     sync.RWMutex
	lists  []mirror.TaskList
	tasks  map[string][]mirror.RemoteTask // listID -> tasks
	nextID int

	// Error injection for testing
	DefaultListErr   error
	ResolveListErr   error
	ListOpenTasksErr map[string]error // listID -> error
	CreateTaskErr    error
	CompleteTaskErr  error
}

// NewFakeRemote creates a new FakeRemote with a default list.
func NewFakeRemote() *FakeRemote {
	f := &FakeRemote{
		tasks:            make(map[string][]mirror.RemoteTask),
		ListOpenTasksErr: make(map[string]error),
	}
	f.lists = []mirror.TaskList{
		{ID: DefaultListID, Title: "My Tasks", IsDefault: true},
	}
	f.tasks[DefaultListID] = nil
	return f
}

// AddList adds a list to the fake remote.
func (f *FakeRemote) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, mirror.TaskList{ID: id, Title: title})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask adds an open task to a list.
func (f *FakeRemote) AddTask(listID, taskID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], mirror.RemoteTask{
		ID:     taskID,
		Title:  title,
		Status: "needsAction",
	})
}

// Tasks returns a copy of every task in a list, open or completed.
func (f *FakeRemote) Tasks(listID string) []mirror.RemoteTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]mirror.RemoteTask, len(f.tasks[listID]))
	copy(out, f.tasks[listID])
	return out
}

// DefaultList implements mirror.Remote.
func (f *FakeRemote) DefaultList(ctx context.Context) (mirror.TaskList, error) {
	if f.DefaultListErr != nil {
		return mirror.TaskList{}, f.DefaultListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, l := range f.lists {
		if l.IsDefault {
			return l, nil
		}
	}
	return mirror.TaskList{}, errors.New("no default list")
}

// ResolveList implements mirror.Remote.
func (f *FakeRemote) ResolveList(ctx context.Context, name string) (mirror.TaskList, error) {
	if f.ResolveListErr != nil {
		return mirror.TaskList{}, f.ResolveListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	nameLower := strings.ToLower(strings.TrimSpace(name))

	var matches []mirror.TaskList
	for _, l := range f.lists {
		if strings.ToLower(strings.TrimSpace(l.Title)) == nameLower {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return mirror.TaskList{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return mirror.TaskList{}, ErrAmbiguous
	}
}

// ListOpenTasks implements mirror.Remote.
func (f *FakeRemote) ListOpenTasks(ctx context.Context, listID string, page int) ([]mirror.RemoteTask, error) {
	if err, ok := f.ListOpenTasksErr[listID]; ok && err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, ErrNotFound
	}

	var open []mirror.RemoteTask
	for _, t := range tasks {
		if t.Status == "needsAction" {
			open = append(open, t)
		}
	}

	start := (page - 1) * mirror.PageSize
	if start >= len(open) {
		return nil, nil
	}
	end := min(start+mirror.PageSize, len(open))
	return open[start:end], nil
}

// CreateTask implements mirror.Remote.
func (f *FakeRemote) CreateTask(ctx context.Context, listID, title string) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[listID]; !ok {
		return ErrNotFound
	}

	f.nextID++
	f.tasks[listID] = append(f.tasks[listID], mirror.RemoteTask{
		ID:     fmt.Sprintf("remote-%d", f.nextID),
		Title:  title,
		Status: "needsAction",
	})
	return nil
}

// CompleteTask implements mirror.Remote.
func (f *FakeRemote) CompleteTask(ctx context.Context, listID, taskID string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return ErrNotFound
	}

	for i, t := range tasks {
		if t.ID == taskID {
			tasks[i].Status = "completed"
			return nil
		}
	}
	return ErrNotFound
}
