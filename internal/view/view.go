// Package view derives filtered, searched task lists and statistics.
// Nothing here mutates its input.
package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gtodo/internal/task"
)

// Filter selects tasks by completion state.
type Filter string

const (
	All       Filter = "all"
	Active    Filter = "active"
	Completed Filter = "completed"
)

// ParseFilter parses a filter name. The empty string means All.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return All, nil
	case All, Active, Completed:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter: %s (want all, active or completed)", s)
	}
}

func (f Filter) keep(t task.Task) bool {
	switch f {
	case Active:
		return !t.Completed
	case Completed:
		return t.Completed
	default:
		return true
	}
}

// Project returns the tasks matching filter and search, in source order.
// A blank search matches everything; otherwise matching is a
// case-insensitive substring test on the task text.
func Project(tasks []task.Task, filter Filter, search string) []task.Task {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !filter.keep(t) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats aggregates a collection.
type Stats struct {
	Total          int `json:"total" yaml:"total"`
	Active         int `json:"active" yaml:"active"`
	Completed      int `json:"completed" yaml:"completed"`
	CompletionRate int `json:"completionRate" yaml:"completionRate"`
}

// Compute returns statistics for tasks. CompletionRate is a rounded
// percentage and is 0 for an empty collection.
func Compute(tasks []task.Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(100 * float64(st.Completed) / float64(st.Total)))
	}
	return st
}

// Age renders how long ago created was, relative to now.
func Age(created, now time.Time) string {
	hours := int(now.Sub(created) / time.Hour)
	switch {
	case hours < 1:
		return "just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", hours/24)
	}
}
