package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textchecker/internal/models"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     models.HistoryConfig
		backend string
	}{
		{"none", models.HistoryConfig{Type: models.HistoryTypeNone}, "none"},
		{"memory", models.HistoryConfig{Type: models.HistoryTypeMemory}, "memory"},
		{"default", models.HistoryConfig{}, "memory"},
		{"json", models.HistoryConfig{Type: models.HistoryTypeJSON, DSN: filepath.Join(t.TempDir(), "h.json")}, "json"},
		{"sqlite", models.HistoryConfig{Type: models.HistoryTypeSQLite, DSN: filepath.Join(t.TempDir(), "h.db")}, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(ctx, tt.cfg)
			require.NoError(t, err)
			defer store.Close()
			assert.Equal(t, tt.backend, store.Backend())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, models.HistoryConfig{Type: "redis"})
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
	assert.Nil(t, store)

	store, err = New(ctx, models.HistoryConfig{Type: models.HistoryTypeSQLite})
	assert.Error(t, err)
	assert.Nil(t, store)

	store, err = New(ctx, models.HistoryConfig{Type: models.HistoryTypeJSON})
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestSupportedBackends(t *testing.T) {
	assert.ElementsMatch(t, []string{"none", "memory", "json", "sqlite", "postgres"}, SupportedBackends())
}
