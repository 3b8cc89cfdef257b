package history

import (
	"context"
	"fmt"

	"textchecker/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS check_history (
	id          UUID PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	client_hash TEXT NOT NULL,
	language    TEXT NOT NULL,
	text_length INTEGER NOT NULL,
	corrections INTEGER NOT NULL,
	has_changes BOOLEAN NOT NULL,
	fallback    BOOLEAN NOT NULL,
	duration_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_check_history_created_at ON check_history (created_at);
`

// PostgresStore persists check records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and creates the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connection string is required for PostgreSQL history")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (ps *PostgresStore) Record(ctx context.Context, rec *models.CheckRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	_, err := ps.pool.Exec(ctx,
		`INSERT INTO check_history
			(id, created_at, client_hash, language, text_length, corrections, has_changes, fallback, duration_ms)
		 VALUES (@id, @created_at, @client_hash, @language, @text_length, @corrections, @has_changes, @fallback, @duration_ms)`,
		pgx.NamedArgs{
			"id":          rec.ID,
			"created_at":  rec.CreatedAt,
			"client_hash": rec.ClientHash,
			"language":    rec.Language,
			"text_length": rec.TextLength,
			"corrections": rec.Corrections,
			"has_changes": rec.HasChanges,
			"fallback":    rec.Fallback,
			"duration_ms": rec.Duration.Milliseconds(),
		})
	if err != nil {
		return fmt.Errorf("failed to insert check record: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Stats(ctx context.Context) (*models.CheckStats, error) {
	stats := newStats()

	err := ps.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE fallback),
		        COALESCE(SUM(corrections), 0)::BIGINT
		   FROM check_history`,
	).Scan(&stats.TotalChecks, &stats.FallbackChecks, &stats.TotalCorrections)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate check history: %w", err)
	}

	rows, err := ps.pool.Query(ctx,
		`SELECT language, COUNT(*) FROM check_history GROUP BY language`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate languages: %w", err)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (languageCount, error) {
		var lc languageCount
		err := row.Scan(&lc.language, &lc.count)
		return lc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan language rows: %w", err)
	}
	for _, lc := range counts {
		stats.ByLanguage[lc.language] = lc.count
	}
	return stats, nil
}

type languageCount struct {
	language string
	count    int64
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.pool.Ping(ctx)
}

func (ps *PostgresStore) Backend() string { return models.HistoryTypePostgres }

// Close closes the connection pool
func (ps *PostgresStore) Close() error {
	ps.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
