package ratelimit

import (
	"sync"
	"time"
)

// clientWindow is the tracked state of one client. count is always >= 1.
type clientWindow struct {
	windowStart time.Time
	count       int
}

// WindowLimiter admits at most maxRequests requests per client within a window that
// starts at the client's first request. It approximates a sliding window:
// the window is reset lazily once it has expired, not rolled forward.
type WindowLimiter struct {
	window      time.Duration
	maxRequests int

	mu      sync.Mutex
	clients map[string]*clientWindow
}

// NewWindowLimiter creates a limiter admitting maxRequests requests per window.
func NewWindowLimiter(window time.Duration, maxRequests int) *WindowLimiter {
	return &WindowLimiter{
		window:      window,
		maxRequests: maxRequests,
		clients:     make(map[string]*clientWindow),
	}
}

// Admit checks whether a request from key at now should be allowed. The
// sweep, lookup, check and increment run under a single lock so concurrent
// requests from one client cannot both pass the limit.
func (l *WindowLimiter) Admit(key string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	cw, exists := l.clients[key]
	if !exists {
		cw = &clientWindow{windowStart: now, count: 1}
		l.clients[key] = cw
		return l.decision(cw, true, now)
	}

	// Unreachable after the sweep; kept so Admit never trusts a stale window.
	if l.expired(cw, now) {
		cw.windowStart = now
		cw.count = 1
		return l.decision(cw, true, now)
	}

	if cw.count >= l.maxRequests {
		return l.decision(cw, false, now)
	}

	cw.count++
	return l.decision(cw, true, now)
}

// Allow admits key at the current wall-clock time.
func (l *WindowLimiter) Allow(key string) Decision {
	return l.Admit(key, time.Now())
}

// Len returns the number of tracked clients.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Limit returns the maximum number of requests per window.
func (l *WindowLimiter) Limit() int {
	return l.maxRequests
}

// sweep removes every client whose window has expired. Callers hold l.mu.
func (l *WindowLimiter) sweep(now time.Time) {
	for key, cw := range l.clients {
		if l.expired(cw, now) {
			delete(l.clients, key)
		}
	}
}

func (l *WindowLimiter) expired(cw *clientWindow, now time.Time) bool {
	return now.Sub(cw.windowStart) > l.window
}

func (l *WindowLimiter) decision(cw *clientWindow, allowed bool, now time.Time) Decision {
	resetAt := cw.windowStart.Add(l.window)
	d := Decision{
		Allowed:   allowed,
		Limit:     l.maxRequests,
		Remaining: l.maxRequests - cw.count,
		ResetAt:   resetAt,
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if !allowed {
		d.RetryAfter = resetAt.Sub(now)
	}
	return d
}

var _ Limiter = (*WindowLimiter)(nil)
