package observability

import (
	"context"
	"errors"
	"time"

	"textchecker/internal/completion"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const completionScope = "textchecker/completion"

// InstrumentedCompleter wraps a completion.Completer with OpenTelemetry
// tracing and metrics instrumentation.
type InstrumentedCompleter struct {
	inner    completion.Completer
	provider string
	tracer   trace.Tracer
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewInstrumentedCompleter creates a completer wrapper that records a trace
// span, a latency histogram and an error counter for every call. Nil
// providers select the global ones.
func NewInstrumentedCompleter(inner completion.Completer, provider string, mp metric.MeterProvider, tp trace.TracerProvider) (*InstrumentedCompleter, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	meter := mp.Meter(completionScope)

	duration, err := meter.Float64Histogram(
		"completion.request.duration",
		metric.WithDescription("Duration of completion requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errCounter, err := meter.Int64Counter(
		"completion.request.errors",
		metric.WithDescription("Number of failed completion requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedCompleter{
		inner:    inner,
		provider: provider,
		tracer:   tp.Tracer(completionScope),
		duration: duration,
		errors:   errCounter,
	}, nil
}

func (c *InstrumentedCompleter) Complete(ctx context.Context, messages []completion.Message) (string, error) {
	ctx, span := c.tracer.Start(ctx, "completion.Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("completion.provider", c.provider),
			attribute.Int("completion.messages", len(messages)),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := c.inner.Complete(ctx, messages)
	elapsed := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{attribute.String("provider", c.provider)}
	c.duration.Record(ctx, elapsed, metric.WithAttributes(attrs...))

	if err != nil {
		c.errors.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("reason", errorReason(err)))...))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.Int("completion.response_bytes", len(text)))
	span.SetStatus(codes.Ok, "")
	return text, nil
}

// errorReason classifies a completion error into a low-cardinality label.
func errorReason(err error) string {
	var apiErr *completion.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, completion.ErrEmptyResponse):
		return "empty"
	case errors.As(err, &apiErr) && apiErr.IsRateLimited():
		return "rate_limited"
	case errors.As(err, &apiErr) && apiErr.IsAuthError():
		return "auth"
	case errors.As(err, &apiErr) && apiErr.StatusCode > 0:
		return "http"
	default:
		return "transport"
	}
}

var _ completion.Completer = (*InstrumentedCompleter)(nil)
