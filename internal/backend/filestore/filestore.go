// Package filestore implements storage.Backend with one JSON file per key.
// Access is serialized across processes by a flock on a sidecar lock file,
// and writes replace the data file with an atomic rename, so a crash
// mid-write leaves the previous value in place.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gtodo/internal/storage"
)

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 10 * time.Millisecond

// Store keeps each key in <dir>/<sanitized key>.json.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a Store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, FileName(key))
}

// LockPath returns the lock file guarding key.
func (s *Store) LockPath(key string) string {
	return s.Path(key) + ".lock"
}

// FileName maps a key to a safe file name: anything outside [A-Za-z0-9._-]
// becomes '_'. "@taskmanager_tasks" is stored as "_taskmanager_tasks.json".
func FileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String() + ".json"
}

// Get implements storage.Backend.
// A missing file is ErrNotFound. An empty file is returned as is and fails
// to decode upstream, so it is never mistaken for a first run.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	lock, err := s.lock(ctx, key, syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer unlock(lock)

	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Set implements storage.Backend.
// Lock → write temp file → Sync → Rename → sync dir → Unlock.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	lock, err := s.lock(ctx, key, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock(lock)

	path := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	committed = true
	return syncDir(s.dir)
}

// Close implements storage.Backend.
func (s *Store) Close() error { return nil }

// lock takes a flock on the key's lock file. A contended lock is polled
// until ctx is done.
func (s *Store) lock(ctx context.Context, key string, how int) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(s.LockPath(key), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	for {
		err := syscall.Flock(int(f.Fd()), how|syscall.LOCK_NB)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) && !errors.Is(err, syscall.EINTR) {
			f.Close()
			return nil, fmt.Errorf("failed to lock file: %w", err)
		}
		select {
		case <-ctx.Done():
			f.Close()
			return nil, fmt.Errorf("failed to lock file: %w", ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

func unlock(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory: %w", err)
	}
	return nil
}
