// Package checker implements the text check request flow: input validation,
// per-client admission, access control, the model call and normalization of
// its output.
package checker

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"textchecker/internal/completion"
	"textchecker/internal/history"
	"textchecker/internal/models"
	"textchecker/internal/normalize"
	"textchecker/internal/ratelimit"
)

// recordTimeout bounds a history write after the check itself has finished.
const recordTimeout = 5 * time.Second

// Service runs text checks against a completion provider.
type Service struct {
	completer completion.Completer
	limiter   ratelimit.Limiter
	password  string
	timeout   time.Duration
	history   history.Store
	metrics   Metrics
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter enables per-client admission. Without it every request is
// admitted.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithAccessPassword requires callers to present password. An empty password
// disables the check.
func WithAccessPassword(password string) Option {
	return func(s *Service) { s.password = password }
}

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithHistory records check metadata in store.
func WithHistory(store history.Store) Option {
	return func(s *Service) { s.history = store }
}

// WithMetrics reports check outcomes to m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a checker around completer.
func NewService(completer completion.Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		history:   history.NopStore{},
		metrics:   nopMetrics{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs one text check. Malformed model output is not an error: it
// yields a result with the original text and Error set.
func (s *Service) Check(ctx context.Context, req *models.CheckTextRequest) (*models.CorrectionResult, error) {
	if req == nil {
		return nil, NewInvalidInputError("Text is required", nil)
	}
	if err := req.Validate(); err != nil {
		s.metrics.RecordRejection(ctx, models.ErrorCodeInvalidInput)
		return nil, NewInvalidInputError(err.Error(), err)
	}
	req.Normalize()

	start := s.now()

	if s.limiter != nil {
		d := s.limiter.Admit(req.ClientID, start)
		if !d.Allowed {
			slog.Warn("Rate limit exceeded",
				"client_hash", history.HashClient(req.ClientID),
				"reset_at", d.ResetAt)
			s.metrics.RecordRejection(ctx, models.ErrorCodeRateLimited)
			return nil, NewRateLimitedError(d)
		}
	}

	if err := s.Authorize(req.Credential); err != nil {
		slog.Warn("Rejected check with invalid access password",
			"client_hash", history.HashClient(req.ClientID))
		s.metrics.RecordRejection(ctx, models.ErrorCodeUnauthorized)
		return nil, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.completer.Complete(callCtx, completion.UserMessage(BuildPrompt(req.Text, req.Language)))
	if errors.Is(err, completion.ErrEmptyResponse) {
		// The provider answered; an empty answer is malformed output, not an
		// upstream failure.
		raw, err = "", nil
	}
	if err != nil {
		slog.Error("Completion failed",
			"language", req.Language,
			"error", err)
		s.metrics.RecordRejection(ctx, models.ErrorCodeUpstream)
		return nil, NewUpstreamError(err)
	}

	result := normalize.Normalize(raw, req.Text)
	duration := s.now().Sub(start)

	s.metrics.RecordCheck(ctx, req.Language, result)
	s.record(ctx, req, result, start, duration)

	slog.Info("Text checked",
		"language", req.Language,
		"text_length", len(req.Text),
		"corrections", len(result.Corrections),
		"fallback", result.IsFallback(),
		"duration", duration)

	return result, nil
}

// Authorize compares credential with the configured access password in
// constant time.
func (s *Service) Authorize(credential string) error {
	if s.password == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(credential), []byte(s.password)) != 1 {
		return NewUnauthorizedError()
	}
	return nil
}

// Stats aggregates the check history.
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	stats, err := s.history.Stats(ctx)
	if err != nil {
		return nil, NewInternalError("Failed to read check history", err)
	}
	return &models.StatsResponse{
		TotalChecks:      stats.TotalChecks,
		FallbackChecks:   stats.FallbackChecks,
		TotalCorrections: stats.TotalCorrections,
		ByLanguage:       stats.ByLanguage,
		Backend:          s.history.Backend(),
		Timestamp:        s.now().UTC(),
	}, nil
}

// Ping checks the history backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}

// record writes check metadata. The write outlives client cancellation and
// its failure never fails the check.
func (s *Service) record(ctx context.Context, req *models.CheckTextRequest, result *models.CorrectionResult, start time.Time, duration time.Duration) {
	rec := &models.CheckRecord{
		ID:          uuid.NewString(),
		CreatedAt:   start.UTC(),
		ClientHash:  history.HashClient(req.ClientID),
		Language:    req.Language,
		TextLength:  len(req.Text),
		Corrections: len(result.Corrections),
		HasChanges:  result.HasChanges,
		Fallback:    result.IsFallback(),
		Duration:    duration,
	}

	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.history.Record(recCtx, rec); err != nil {
		slog.Error("Failed to record check history",
			"backend", s.history.Backend(),
			"error", err)
	}
}
