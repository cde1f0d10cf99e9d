package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gtodo/internal/task"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in the full list, 0 if ID is set
	ID  string // task id, empty if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first arg.
//
// All digits is a 1-based number into the full newest-first list, as printed
// by "gtodo list" without filters. Anything else is taken as a task id.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	return TaskRef{ID: arg}, nil
}

// Resolve returns the id the reference points to in tasks. A number outside
// the list is an error; an id is returned as is, since a stale id is a no-op
// for every mutation.
func (r TaskRef) Resolve(tasks []task.Task) (string, error) {
	if r.ID != "" {
		return r.ID, nil
	}
	if r.Num < 1 || r.Num > len(tasks) {
		return "", fmt.Errorf("task number out of range: %d", r.Num)
	}
	return tasks[r.Num-1].ID, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findTask returns the task with id.
func findTask(tasks []task.Task, id string) (task.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}
