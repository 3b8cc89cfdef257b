package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewWindowLimiter(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 20)

	assert.NotNil(t, limiter)
	assert.Equal(t, 20, limiter.Limit())
	assert.Zero(t, limiter.Len())
}

func TestWindowLimiter_Admit_FirstRequest(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 20)

	d := limiter.Admit("192.168.1.1", t0)
	assert.True(t, d.Allowed)
	assert.Equal(t, 20, d.Limit)
	assert.Equal(t, 19, d.Remaining)
	assert.Equal(t, t0.Add(time.Hour), d.ResetAt)
	assert.Zero(t, d.RetryAfter)

	limiter.mu.Lock()
	cw := limiter.clients["192.168.1.1"]
	limiter.mu.Unlock()
	require.NotNil(t, cw)
	assert.Equal(t, 1, cw.count)
	assert.Equal(t, t0, cw.windowStart)
}

func TestWindowLimiter_Admit_ExactlyMaxPerWindow(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 20)
	key := "192.168.1.1"

	for i := 0; i < 20; i++ {
		d := limiter.Admit(key, t0.Add(time.Duration(i)*time.Minute))
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 20-(i+1), d.Remaining)
	}

	at := t0.Add(30 * time.Minute)
	d := limiter.Admit(key, at)
	assert.False(t, d.Allowed, "21st request should be rejected")
	assert.Equal(t, t0.Add(time.Hour), d.ResetAt)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 30*time.Minute, d.RetryAfter)

	limiter.mu.Lock()
	count := limiter.clients[key].count
	limiter.mu.Unlock()
	assert.Equal(t, 20, count, "rejection must not increment")
}

func TestWindowLimiter_Admit_BoundaryIsInclusive(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 1)
	key := "10.0.0.1"

	require.True(t, limiter.Admit(key, t0).Allowed)

	// now - windowStart == window is still live
	d := limiter.Admit(key, t0.Add(time.Hour))
	assert.False(t, d.Allowed)
}

func TestWindowLimiter_Admit_AfterResetStartsFreshWindow(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 20)
	key := "192.168.1.1"

	for i := 0; i < 21; i++ {
		limiter.Admit(key, t0)
	}

	after := t0.Add(time.Hour + time.Second)
	d := limiter.Admit(key, after)
	assert.True(t, d.Allowed)
	assert.Equal(t, after.Add(time.Hour), d.ResetAt)
	assert.Equal(t, 19, d.Remaining)

	limiter.mu.Lock()
	cw := limiter.clients[key]
	limiter.mu.Unlock()
	assert.Equal(t, 1, cw.count)
	assert.Equal(t, after, cw.windowStart)
}

func TestWindowLimiter_Admit_DifferentKeys(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 2)

	limiter.Admit("key1", t0)
	limiter.Admit("key1", t0)
	assert.False(t, limiter.Admit("key1", t0).Allowed, "key1 should be denied")
	assert.True(t, limiter.Admit("key2", t0).Allowed, "key2 should be allowed")
}

func TestWindowLimiter_LazySweep(t *testing.T) {
	limiter := NewWindowLimiter(time.Minute, 5)

	limiter.Admit("stale-a", t0)
	limiter.Admit("stale-b", t0.Add(10*time.Second))
	limiter.Admit("live", t0.Add(50*time.Second))
	require.Equal(t, 3, limiter.Len())

	// Any admission sweeps every expired client, not only the caller's.
	limiter.Admit("newcomer", t0.Add(75*time.Second))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.clients, "stale-a")
	assert.NotContains(t, limiter.clients, "stale-b")
	assert.Contains(t, limiter.clients, "live")
	assert.Contains(t, limiter.clients, "newcomer")
}

func TestWindowLimiter_Allow_UsesWallClock(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 3)

	d := limiter.Allow("wall")
	assert.True(t, d.Allowed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), d.ResetAt, 5*time.Second)
}

func TestWindowLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewWindowLimiter(time.Hour, 20)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", id%5)
			for j := 0; j < 10; j++ {
				if limiter.Admit(key, t0).Allowed {
					allowed.Add(1)
				}
			}
		}(i)
	}
	wg.Wait()

	// 5 clients x 20 admits; check-then-act must not overshoot.
	assert.Equal(t, int64(100), allowed.Load())
}
