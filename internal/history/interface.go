// Package history persists metadata about completed checks. The checked text
// is never stored.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"textchecker/internal/models"
)

// Store defines the interface for check history persistence. It provides a
// clean abstraction that can be implemented by different backends such as
// memory or SQL databases.
type Store interface {
	// Record stores the metadata of one completed check
	Record(ctx context.Context, rec *models.CheckRecord) error

	// Stats aggregates every stored record
	Stats(ctx context.Context) (*models.CheckStats, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Backend returns the backend type name
	Backend() string

	// Close closes the store and cleans up resources
	Close() error
}

// HashClient returns a short, stable identifier for a client address.
func HashClient(clientID string) string {
	sum := sha256.Sum256([]byte(clientID))
	return hex.EncodeToString(sum[:8])
}

func newStats() *models.CheckStats {
	return &models.CheckStats{ByLanguage: make(map[string]int64)}
}
