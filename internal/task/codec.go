package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the ISO-8601 form written for createdAt/updatedAt.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// record is the stored shape of a task. UpdatedAt is optional on legacy data.
type record struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.record())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed, err := r.task()
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Task) MarshalYAML() (interface{}, error) {
	return t.record(), nil
}

func (t Task) record() record {
	return record{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(TimeLayout),
		UpdatedAt: t.UpdatedAt.UTC().Format(TimeLayout),
	}
}

func (r record) task() (Task, error) {
	if strings.TrimSpace(r.ID) == "" {
		return Task{}, fmt.Errorf("%w: missing id", ErrCorrupt)
	}
	if strings.TrimSpace(r.Text) == "" {
		return Task{}, fmt.Errorf("%w: task %s has blank text", ErrCorrupt, r.ID)
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("%w: task %s: createdAt: %v", ErrCorrupt, r.ID, err)
	}
	updated := created
	if r.UpdatedAt != "" {
		updated, err = time.Parse(time.RFC3339Nano, r.UpdatedAt)
		if err != nil {
			return Task{}, fmt.Errorf("%w: task %s: updatedAt: %v", ErrCorrupt, r.ID, err)
		}
	}
	created = Timestamp(created)
	updated = Timestamp(updated)
	if updated.Before(created) {
		updated = created
	}
	return Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// Encode serializes the collection as a JSON array, preserving order.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a collection written by Encode (or by older clients that
// omitted updatedAt). Any malformed record makes the whole payload corrupt.
func Decode(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		if errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrCorrupt, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}
