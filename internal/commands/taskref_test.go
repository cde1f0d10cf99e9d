package commands

import (
	"testing"
	"time"

	"gtodo/internal/task"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.ID != "" {
		t.Errorf("expected Num 5, got %+v", ref)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"0190f1c2-7b7a-7d4e-9d2a-3c1f0e8b9a11"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 0 || ref.ID != "0190f1c2-7b7a-7d4e-9d2a-3c1f0e8b9a11" {
		t.Errorf("expected id ref, got %+v", ref)
	}
}

func TestParseTaskRef_MixedIsID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "a1" {
		t.Errorf("expected ID a1, got %+v", ref)
	}
}

func TestParseTaskRef_Empty(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		_, err := ParseTaskRef(args)
		if err != ErrTaskRefRequired {
			t.Errorf("args %q: expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_Overflow(t *testing.T) {
	_, err := ParseTaskRef([]string{"99999999999999999999999"})
	if err == nil {
		t.Fatal("expected error for overflowing number")
	}
	expectedMsg := "invalid task reference: 99999999999999999999999"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRef_IgnoresExtraArgs(t *testing.T) {
	ref, err := ParseTaskRef([]string{"2", "new", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 2 {
		t.Errorf("expected Num 2, got %d", ref.Num)
	}
}

func TestTaskRefResolve(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var tasks []task.Task
	for _, id := range []string{"c", "b", "a"} {
		tk, err := task.New(id, "task "+id, now)
		if err != nil {
			t.Fatalf("task.New: %v", err)
		}
		tasks = append(tasks, tk)
	}

	tests := []struct {
		name    string
		ref     TaskRef
		want    string
		wantErr string
	}{
		{"first", TaskRef{Num: 1}, "c", ""},
		{"last", TaskRef{Num: 3}, "a", ""},
		{"zero", TaskRef{Num: 0}, "", "task number out of range: 0"},
		{"past end", TaskRef{Num: 4}, "", "task number out of range: 4"},
		{"known id", TaskRef{ID: "b"}, "b", ""},
		{"stale id", TaskRef{ID: "gone"}, "gone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ref.Resolve(tasks)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"-1", false},
		{"١٢", false},
	}

	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
