package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStore_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	store, err := NewJSONStore(path, 10)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "json", store.Backend())
}

func TestJSONStore_RecordPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewJSONStore(path, 10)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, newRecord("1", "english", 2, false)))
	require.NoError(t, store.Record(ctx, newRecord("2", "slovak", 0, true)))

	reopened, err := NewJSONStore(path, 10)
	require.NoError(t, err)

	stats, err := reopened.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalChecks)
	assert.Equal(t, int64(1), stats.FallbackChecks)
	assert.Equal(t, int64(2), stats.TotalCorrections)
	assert.Equal(t, map[string]int64{"english": 1, "slovak": 1}, stats.ByLanguage)
	assert.Equal(t, 2, reopened.Len())
}

func TestJSONStore_NeverStoresText(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewJSONStore(path, 10)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, newRecord("1", "english", 1, false)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "192.168.1.1")

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "records")
	assert.Contains(t, doc, "stats")
}

func TestJSONStore_CapacityKeepsAggregates(t *testing.T) {
	ctx := context.Background()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "history.json"), 2)
	require.NoError(t, err)

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.Record(ctx, newRecord(id, "english", 1, false)))
	}

	assert.Equal(t, 2, store.Len())
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalChecks)
}

func TestJSONStore_Errors(t *testing.T) {
	_, err := NewJSONStore("", 10)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = NewJSONStore(path, 10)
	assert.Error(t, err)

	store, err := NewJSONStore(filepath.Join(t.TempDir(), "h.json"), 10)
	require.NoError(t, err)
	assert.ErrorIs(t, store.Record(context.Background(), nil), ErrInvalidRecord)
}

func TestJSONStore_PingMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := NewJSONStore(path, 10)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.Error(t, store.Ping(context.Background()))
}
