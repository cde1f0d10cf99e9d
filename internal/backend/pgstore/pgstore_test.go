package pgstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtodo/internal/storage"
)

func TestPgStore(t *testing.T) {
	dsn := os.Getenv("GTODO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GTODO_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	s, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	key := "gtodo-test-" + t.Name()
	_, err = s.pool.Exec(ctx, `DELETE FROM gtodo_kv WHERE key = $1`, key)
	require.NoError(t, err)

	_, err = s.Get(ctx, key)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, s.Set(ctx, key, []byte(`["first"]`)))
	require.NoError(t, s.Set(ctx, key, []byte(`["second"]`)))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `["second"]`, string(got))
}
