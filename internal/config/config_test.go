package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("expected xdg dir, got %q", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.Storage.Driver != "file" {
		t.Errorf("expected file driver, got %q", s.Storage.Driver)
	}
	if s.Storage.Key != DefaultStorageKey {
		t.Errorf("expected key %q, got %q", DefaultStorageKey, s.Storage.Key)
	}
	if s.Storage.Dir != filepath.Join(dir, "data") {
		t.Errorf("unexpected data dir %q", s.Storage.Dir)
	}
	if s.Persist.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", s.Persist.Timeout)
	}
	if s.Status.ClearAfter != 2*time.Second {
		t.Errorf("expected 2s clear delay, got %v", s.Status.ClearAfter)
	}
}

func TestNew_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	content := `storage:
  driver: sqlite
  key: work
persist:
  timeout: 750ms
  retry_interval: 0s
serve:
  addr: ":9999"
google:
  list: Groceries
`
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.Storage.Driver != "sqlite" || s.Storage.Key != "work" {
		t.Errorf("unexpected storage settings: %+v", s.Storage)
	}
	if s.Persist.Timeout != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", s.Persist.Timeout)
	}
	if s.Persist.RetryInterval != 0 {
		t.Errorf("expected retry disabled, got %v", s.Persist.RetryInterval)
	}
	if s.Serve.Addr != ":9999" {
		t.Errorf("expected :9999, got %q", s.Serve.Addr)
	}
	if s.Google.List != "Groceries" {
		t.Errorf("expected Groceries, got %q", s.Google.List)
	}
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("GTODO_STORAGE_DRIVER", "memory")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.Storage.Driver != "memory" {
		t.Errorf("expected memory driver, got %q", cfg.Settings.Storage.Driver)
	}
}

func TestNew_InvalidSettingsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte("storage: [oops"), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Error("expected error for invalid config.yaml")
	}
}

func TestResolved_FillsHandBuiltConfig(t *testing.T) {
	cfg := &Config{Dir: "/cfg"}
	s := cfg.Resolved()
	if s.Storage.Key != DefaultStorageKey {
		t.Errorf("expected default key, got %q", s.Storage.Key)
	}
	if s.Serve.Addr == "" {
		t.Error("expected default serve addr")
	}
}
