package history

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPostgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

func TestPostgresStore_EmptyDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "")
	assert.Error(t, err)
}

func TestPostgresStore_RecordAndStats(t *testing.T) {
	dsn := getPostgresDSN(t)
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.pool.Exec(ctx, "TRUNCATE check_history")
	require.NoError(t, err)

	require.NoError(t, store.Record(ctx, newRecord(uuid.NewString(), "english", 2, false)))
	require.NoError(t, store.Record(ctx, newRecord(uuid.NewString(), "english", 0, true)))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalChecks)
	assert.Equal(t, int64(1), stats.FallbackChecks)
	assert.Equal(t, int64(2), stats.TotalCorrections)
	assert.Equal(t, int64(2), stats.ByLanguage["english"])
	assert.NoError(t, store.Ping(ctx))
}
