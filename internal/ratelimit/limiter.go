// Package ratelimit provides per-client request admission for the text
// checker. Clients are tracked in fixed-start windows held in memory; stale
// windows are swept lazily on every admission instead of by a background
// timer, so memory is bounded by the number of recently active clients.
package ratelimit

import "time"

// Limiter defines the admission contract. Implementations must be safe for
// concurrent use.
type Limiter interface {
	// Admit decides whether a request from key arriving at now is allowed
	// and returns the window state for populating response headers.
	Admit(key string, now time.Time) Decision
}

// Decision contains the outcome of an admission and the window state.
type Decision struct {
	Allowed    bool          // Whether the request may proceed
	Limit      int           // Maximum requests per window
	Remaining  int           // Requests left in the current window
	ResetAt    time.Time     // Window start + window duration
	RetryAfter time.Duration // How long to wait (meaningful only when denied)
}
