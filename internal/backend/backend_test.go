package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtodo/internal/backend/filestore"
	"gtodo/internal/backend/memstore"
	"gtodo/internal/backend/sqlitestore"
	"gtodo/internal/config"
)

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	base := config.DefaultSettings(dir).Storage

	s := base
	b, err := Open(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &filestore.Store{}, b)

	s.Driver = "sqlite"
	s.Path = filepath.Join(dir, "x.db")
	b, err = Open(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &sqlitestore.Store{}, b)
	require.NoError(t, b.Close())

	s.Driver = "memory"
	b, err = Open(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, b)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	base := config.DefaultSettings(t.TempDir()).Storage

	s := base
	s.Driver = "redis"
	_, err := Open(ctx, s)
	assert.ErrorContains(t, err, "unknown storage driver: redis")

	s = base
	s.Driver = "postgres"
	_, err = Open(ctx, s)
	assert.ErrorContains(t, err, "storage.dsn")

	s = base
	s.Key = "  "
	_, err = Open(ctx, s)
	assert.ErrorContains(t, err, "storage key required")
}
