package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gtodo/internal/task"
	"gtodo/internal/testutil"
	"gtodo/internal/view"
)

func mustTask(t *testing.T, id, text string, created time.Time, completed bool) task.Task {
	t.Helper()
	tk, err := task.New(id, text, created)
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	tk.Completed = completed
	return tk
}

func sample(t *testing.T) []task.Task {
	now := testutil.Epoch
	return []task.Task{
		mustTask(t, "a", "Walk dog", now.Add(150*time.Minute), false),
		mustTask(t, "b", "Buy milk", now, true),
		mustTask(t, "c", "multi\nline", now.Add(-50*time.Hour), false),
	}
}

func TestFormatListing(t *testing.T) {
	tasks := sample(t)
	now := testutil.Epoch.Add(3 * time.Hour)

	var buf bytes.Buffer
	for i, tk := range tasks {
		FormatTask(&buf, i+1, tk, now)
	}
	FormatSummary(&buf, view.Compute(tasks))

	testutil.GoldenString(t, "list", buf.String())
}

func TestFormatSummarySingular(t *testing.T) {
	var buf bytes.Buffer
	FormatSummary(&buf, view.Stats{Total: 1, Active: 1})
	if got := buf.String(); got != "1 task, 1 active, 0 completed\n" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	FormatStats(&buf, view.Stats{Total: 3, Active: 2, Completed: 1, CompletionRate: 33})
	want := "total:      3\nactive:     2\ncompleted:  1\ndone:       33%\n"
	if buf.String() != want {
		t.Errorf("output mismatch\nWant:\n%s\nGot:\n%s", want, buf.String())
	}
}

func TestEncode(t *testing.T) {
	tasks := sample(t)[1:2]

	var js bytes.Buffer
	if err := Encode(&js, JSON, tasks); err != nil {
		t.Fatalf("Encode json: %v", err)
	}
	if !strings.Contains(js.String(), `"createdAt": "2024-03-01T12:00:00.000Z"`) {
		t.Errorf("unexpected json:\n%s", js.String())
	}

	var ys bytes.Buffer
	if err := Encode(&ys, YAML, tasks); err != nil {
		t.Fatalf("Encode yaml: %v", err)
	}
	if !strings.Contains(ys.String(), "text: Buy milk") || !strings.Contains(ys.String(), "completed: true") {
		t.Errorf("unexpected yaml:\n%s", ys.String())
	}

	if err := Encode(&ys, Text, tasks); err == nil {
		t.Error("expected error for text format")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "TEXT": Text, "json": JSON, " yaml ": YAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
