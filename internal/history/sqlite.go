package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"textchecker/internal/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS check_history (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	client_hash TEXT NOT NULL,
	language    TEXT NOT NULL,
	text_length INTEGER NOT NULL,
	corrections INTEGER NOT NULL,
	has_changes INTEGER NOT NULL,
	fallback    INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_check_history_created_at ON check_history (created_at);
`

// SQLiteStore persists check records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn and creates the schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connection string is required for SQLite history")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, rec *models.CheckRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO check_history
			(id, created_at, client_hash, language, text_length, corrections, has_changes, fallback, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.ClientHash,
		rec.Language,
		rec.TextLength,
		rec.Corrections,
		boolToInt(rec.HasChanges),
		boolToInt(rec.Fallback),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert check record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*models.CheckStats, error) {
	stats := newStats()

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(fallback), 0), COALESCE(SUM(corrections), 0) FROM check_history`,
	).Scan(&stats.TotalChecks, &stats.FallbackChecks, &stats.TotalCorrections)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate check history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT language, COUNT(*) FROM check_history GROUP BY language`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lang string
		var n int64
		if err := rows.Scan(&lang, &n); err != nil {
			return nil, fmt.Errorf("failed to scan language row: %w", err)
		}
		stats.ByLanguage[lang] = n
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Backend() string { return models.HistoryTypeSQLite }

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
