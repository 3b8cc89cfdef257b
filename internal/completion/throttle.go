package completion

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Throttled limits the rate of outbound completion calls across all callers.
// Waiting honours the caller's context, so a request whose deadline expires
// in the queue fails without reaching the provider.
type Throttled struct {
	next    Completer
	limiter *rate.Limiter
}

// NewThrottled wraps next with a token bucket admitting perMinute calls per
// minute with a burst of one. A non-positive perMinute leaves calls
// unthrottled.
func NewThrottled(next Completer, perMinute int) *Throttled {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (t *Throttled) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for completion slot: %w", err)
	}
	return t.next.Complete(ctx, messages)
}

var _ Completer = (*Throttled)(nil)
