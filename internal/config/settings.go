package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultStorageKey is the key the task collection is stored under.
const DefaultStorageKey = "@taskmanager_tasks"

// Settings are the tunables read from config.yaml.
type Settings struct {
	Storage StorageSettings `yaml:"storage" mapstructure:"storage"`
	Persist PersistSettings `yaml:"persist" mapstructure:"persist"`
	Status  StatusSettings  `yaml:"status" mapstructure:"status"`
	Serve   ServeSettings   `yaml:"serve" mapstructure:"serve"`
	Google  GoogleSettings  `yaml:"google" mapstructure:"google"`
}

// StorageSettings selects and configures the storage driver.
type StorageSettings struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Key    string `yaml:"key" mapstructure:"key"`

	// Dir is used by the file driver.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Path is the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`

	// DSN is the postgres connection string.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// PersistSettings configures the save queue.
type PersistSettings struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RetryInterval time.Duration `yaml:"retry_interval" mapstructure:"retry_interval"`
}

// StatusSettings configures the status line.
type StatusSettings struct {
	ClearAfter time.Duration `yaml:"clear_after" mapstructure:"clear_after"`
}

// ServeSettings configures the HTTP API.
type ServeSettings struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// GoogleSettings configures the Google Tasks mirror.
type GoogleSettings struct {
	// List is the target list name; empty means the default list.
	List string `yaml:"list" mapstructure:"list"`
}

// DefaultSettings returns the defaults for a config directory.
func DefaultSettings(dir string) Settings {
	return Settings{
		Storage: StorageSettings{
			Driver: "file",
			Key:    DefaultStorageKey,
			Dir:    filepath.Join(dir, "data"),
			Path:   filepath.Join(dir, "gtodo.db"),
		},
		Persist: PersistSettings{
			Timeout:       5 * time.Second,
			RetryInterval: 30 * time.Second,
		},
		Status: StatusSettings{
			ClearAfter: 2 * time.Second,
		},
		Serve: ServeSettings{
			Addr: "127.0.0.1:8080",
		},
	}
}

// LoadSettings merges defaults, <dir>/config.yaml (if present) and GTODO_*
// environment variables, e.g. GTODO_STORAGE_DRIVER=sqlite.
func LoadSettings(dir string) (Settings, error) {
	defaults := DefaultSettings(dir)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GTODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.driver", defaults.Storage.Driver)
	v.SetDefault("storage.key", defaults.Storage.Key)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.dsn", defaults.Storage.DSN)
	v.SetDefault("persist.timeout", defaults.Persist.Timeout)
	v.SetDefault("persist.retry_interval", defaults.Persist.RetryInterval)
	v.SetDefault("status.clear_after", defaults.Status.ClearAfter)
	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("google.list", defaults.Google.List)

	path := filepath.Join(dir, SettingsFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return s.withDefaults(dir), nil
}

func (s Settings) withDefaults(dir string) Settings {
	d := DefaultSettings(dir)
	if s.Storage.Driver == "" {
		s.Storage.Driver = d.Storage.Driver
	}
	if s.Storage.Key == "" {
		s.Storage.Key = d.Storage.Key
	}
	if s.Storage.Dir == "" {
		s.Storage.Dir = d.Storage.Dir
	}
	if s.Storage.Path == "" {
		s.Storage.Path = d.Storage.Path
	}
	if s.Persist.Timeout <= 0 {
		s.Persist.Timeout = d.Persist.Timeout
	}
	if s.Persist.RetryInterval < 0 {
		s.Persist.RetryInterval = 0
	}
	if s.Status.ClearAfter <= 0 {
		s.Status.ClearAfter = d.Status.ClearAfter
	}
	if s.Serve.Addr == "" {
		s.Serve.Addr = d.Serve.Addr
	}
	return s
}
