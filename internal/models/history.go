package models

import "time"

// CheckRecord is the metadata kept about one completed check. The checked
// text itself is never stored; ClientHash is a truncated SHA-256 of the
// client address.
type CheckRecord struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	ClientHash  string        `json:"client_hash"`
	Language    string        `json:"language"`
	TextLength  int           `json:"text_length"`
	Corrections int           `json:"corrections"`
	HasChanges  bool          `json:"has_changes"`
	Fallback    bool          `json:"fallback"`
	Duration    time.Duration `json:"duration"`
}

// CheckStats aggregates stored check records.
type CheckStats struct {
	TotalChecks      int64            `json:"total_checks"`
	FallbackChecks   int64            `json:"fallback_checks"`
	TotalCorrections int64            `json:"total_corrections"`
	ByLanguage       map[string]int64 `json:"by_language"`
}
