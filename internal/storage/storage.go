// Package storage defines the key-value boundary the task collection is
// persisted through. Drivers live under internal/backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend stores opaque values under string keys. Set overwrites.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names accepted by backend.Open.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverFile, DriverSQLite, DriverPostgres, DriverMemory}
}

// ValidateKey rejects keys no driver can store.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key required")
	}
	return nil
}
