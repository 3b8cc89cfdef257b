package history

import (
	"context"
	"sync"

	"textchecker/internal/models"
)

// DefaultMemoryCapacity is the number of records a MemoryStore keeps.
const DefaultMemoryCapacity = 1000

// MemoryStore keeps the most recent records in memory. Aggregates cover every
// record ever seen, not only the retained ones.
type MemoryStore struct {
	mu       sync.RWMutex
	records  []models.CheckRecord
	capacity int
	stats    *models.CheckStats
}

// NewMemoryStore creates a store retaining up to capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		stats:    newStats(),
	}
}

func (m *MemoryStore) Record(ctx context.Context, rec *models.CheckRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) >= m.capacity {
		m.records = m.records[1:]
	}
	m.records = append(m.records, *rec)

	m.stats.TotalChecks++
	m.stats.TotalCorrections += int64(rec.Corrections)
	if rec.Fallback {
		m.stats.FallbackChecks++
	}
	m.stats.ByLanguage[rec.Language]++
	return nil
}

func (m *MemoryStore) Stats(ctx context.Context) (*models.CheckStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := *m.stats
	out.ByLanguage = make(map[string]int64, len(m.stats.ByLanguage))
	for lang, n := range m.stats.ByLanguage {
		out.ByLanguage[lang] = n
	}
	return &out, nil
}

// Recent returns up to n of the newest records, newest first.
func (m *MemoryStore) Recent(n int) []models.CheckRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > len(m.records) {
		n = len(m.records)
	}
	out := make([]models.CheckRecord, 0, n)
	for i := len(m.records) - 1; i >= len(m.records)-n; i-- {
		out = append(out, m.records[i])
	}
	return out
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Backend() string { return models.HistoryTypeMemory }

func (m *MemoryStore) Close() error { return nil }

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Record(ctx context.Context, rec *models.CheckRecord) error { return nil }

func (NopStore) Stats(ctx context.Context) (*models.CheckStats, error) { return newStats(), nil }

func (NopStore) Ping(ctx context.Context) error { return nil }

func (NopStore) Backend() string { return models.HistoryTypeNone }

func (NopStore) Close() error { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = NopStore{}
)
