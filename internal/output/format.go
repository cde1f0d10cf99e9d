// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gtodo/internal/task"
	"gtodo/internal/view"
)

// Format selects how listings are rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a --format value. The empty string means Text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Text, nil
	case Text, JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (want text, json or yaml)", s)
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}  ({AGE})\n"
func FormatTask(w io.Writer, num int, t task.Task, now time.Time) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, mark, normalizeText(t.Text), view.Age(t.CreatedAt, now))
}

// FormatSummary formats the footer under a listing.
func FormatSummary(w io.Writer, st view.Stats) {
	fmt.Fprintf(w, "%d %s, %d active, %d completed\n", st.Total, plural(st.Total, "task"), st.Active, st.Completed)
}

// FormatStats formats the stats command output.
func FormatStats(w io.Writer, st view.Stats) {
	fmt.Fprintf(w, "total:      %d\n", st.Total)
	fmt.Fprintf(w, "active:     %d\n", st.Active)
	fmt.Fprintf(w, "completed:  %d\n", st.Completed)
	fmt.Fprintf(w, "done:       %d%%\n", st.CompletionRate)
}

// Encode writes v as indented JSON or as YAML.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %s is not structured", f)
	}
}

// normalizeText folds line breaks so each task stays on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
