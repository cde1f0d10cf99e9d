// Package task defines the to-do record and its wire format.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a task created at now. The text is trimmed and must not be blank.
func New(id, text string, now time.Time) (Task, error) {
	text, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}
	now = Timestamp(now)
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeText trims text and rejects blank input.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Err: ErrBlankText}
	}
	return text, nil
}

// Touch refreshes UpdatedAt to now, keeping it strictly increasing even
// when the clock has not advanced since the last change.
func (t *Task) Touch(now time.Time) {
	now = Timestamp(now)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = now
}

// Timestamp normalizes t to the precision stored on disk (UTC milliseconds)
// so that in-memory tasks compare equal to their reloaded copies.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NewID returns a time-ordered UUIDv7, which embeds its creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// The random source failed; fall back to a random v4 id.
		return uuid.NewString()
	}
	return id.String()
}
