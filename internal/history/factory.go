package history

import (
	"context"
	"fmt"
	"strings"

	"textchecker/internal/models"
)

// New instantiates a history store based on the provided configuration.
// Supported backends:
//   - none: records are discarded
//   - memory: recent records in memory (default)
//   - json: recent records and aggregates in a JSON file
//   - sqlite: SQLite database file
//   - postgres: PostgreSQL database
func New(ctx context.Context, cfg models.HistoryConfig) (Store, error) {
	switch cfg.Type {
	case models.HistoryTypeNone:
		return NopStore{}, nil
	case models.HistoryTypeMemory, "":
		return NewMemoryStore(DefaultMemoryCapacity), nil
	case models.HistoryTypeJSON:
		s, err := NewJSONStore(cfg.DSN, DefaultMemoryCapacity)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.HistoryTypeSQLite:
		s, err := NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.HistoryTypePostgres:
		s, err := NewPostgresStore(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedBackend, cfg.Type,
			strings.Join(SupportedBackends(), ", "))
	}
}

// SupportedBackends returns every history backend name New accepts.
func SupportedBackends() []string {
	return []string{models.HistoryTypeNone, models.HistoryTypeMemory, models.HistoryTypeJSON, models.HistoryTypeSQLite, models.HistoryTypePostgres}
}
