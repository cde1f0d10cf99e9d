package task

import (
	"errors"
	"fmt"
)

var (
	// ErrBlankText is returned when a task's text is empty after trimming.
	ErrBlankText = errors.New("task text cannot be empty")

	// ErrCorrupt is returned when stored data cannot be decoded into tasks.
	ErrCorrupt = errors.New("corrupt task data")
)

// ValidationError reports rejected user input. It never indicates a fault.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
