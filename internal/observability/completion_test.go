package observability

import (
	"context"
	"errors"
	"testing"

	"textchecker/internal/completion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracerProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestInstrumentedCompleter_Success(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	tp, recorder := newTestTracerProvider(t)

	inner := completion.CompleterFunc(func(ctx context.Context, messages []completion.Message) (string, error) {
		return `{"correctedText":"ok"}`, nil
	})
	instrumented, err := NewInstrumentedCompleter(inner, "anthropic", mp, tp)
	require.NoError(t, err)

	text, err := instrumented.Complete(context.Background(), completion.UserMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, `{"correctedText":"ok"}`, text)

	metrics := collect(t, reader)
	hist, ok := metrics["completion.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	_, hasErrors := metrics["completion.request.errors"]
	assert.False(t, hasErrors, "no error data points on success")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "completion.Complete", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestInstrumentedCompleter_Error(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	tp, recorder := newTestTracerProvider(t)

	upstream := &completion.APIError{Provider: "anthropic", StatusCode: 429, Message: "slow down"}
	inner := completion.CompleterFunc(func(ctx context.Context, messages []completion.Message) (string, error) {
		return "", upstream
	})
	instrumented, err := NewInstrumentedCompleter(inner, "anthropic", mp, tp)
	require.NoError(t, err)

	_, err = instrumented.Complete(context.Background(), completion.UserMessage("hi"))
	assert.ErrorIs(t, err, upstream)

	metrics := collect(t, reader)
	assert.Equal(t, int64(1), sumFor(t, metrics["completion.request.errors"],
		attribute.String("provider", "anthropic"),
		attribute.String("reason", "rate_limited")))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestInstrumentedCompleter_GlobalProviders(t *testing.T) {
	inner := completion.CompleterFunc(func(ctx context.Context, messages []completion.Message) (string, error) {
		return "x", nil
	})
	instrumented, err := NewInstrumentedCompleter(inner, "gemini", nil, nil)
	require.NoError(t, err)

	text, err := instrumented.Complete(context.Background(), completion.UserMessage("hi"))
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}

func TestErrorReason(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{completion.ErrEmptyResponse, "empty"},
		{&completion.APIError{StatusCode: 429}, "rate_limited"},
		{&completion.APIError{StatusCode: 401}, "auth"},
		{&completion.APIError{StatusCode: 500}, "http"},
		{&completion.APIError{Err: context.DeadlineExceeded}, "timeout"},
		{errors.New("connection refused"), "transport"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, errorReason(tt.err), "error %v", tt.err)
	}
}
