package observability

import (
	"context"

	"textchecker/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const checksScope = "textchecker/checker"

// CheckMetrics counts check outcomes. It satisfies checker.Metrics.
type CheckMetrics struct {
	checks      metric.Int64Counter
	fallbacks   metric.Int64Counter
	corrections metric.Int64Counter
	rejections  metric.Int64Counter
}

// NewCheckMetrics registers the check counters on mp, or on the global meter
// provider when mp is nil.
func NewCheckMetrics(mp metric.MeterProvider) (*CheckMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(checksScope)

	checks, err := meter.Int64Counter("checks.total",
		metric.WithDescription("Completed text checks"),
		metric.WithUnit("{check}"))
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("checks.fallbacks",
		metric.WithDescription("Checks whose model output could not be parsed"),
		metric.WithUnit("{check}"))
	if err != nil {
		return nil, err
	}

	corrections, err := meter.Int64Counter("checks.corrections",
		metric.WithDescription("Corrections returned to clients"),
		metric.WithUnit("{correction}"))
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter("checks.rejections",
		metric.WithDescription("Checks rejected before or during the model call"),
		metric.WithUnit("{check}"))
	if err != nil {
		return nil, err
	}

	return &CheckMetrics{
		checks:      checks,
		fallbacks:   fallbacks,
		corrections: corrections,
		rejections:  rejections,
	}, nil
}

// RecordCheck counts one completed check.
func (m *CheckMetrics) RecordCheck(ctx context.Context, language string, result *models.CorrectionResult) {
	language = languageLabel(language)
	outcome := "ok"
	if result.IsFallback() {
		outcome = "fallback"
		m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("language", language)))
	}

	m.checks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("outcome", outcome),
	))
	m.corrections.Add(ctx, int64(len(result.Corrections)), metric.WithAttributes(attribute.String("language", language)))
}

// RecordRejection counts a rejected check by error code.
func (m *CheckMetrics) RecordRejection(ctx context.Context, code string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}

// languageLabel bounds the language attribute; identifiers are client input.
func languageLabel(language string) string {
	switch language {
	case models.LanguageEnglish, models.LanguageSlovak:
		return language
	}
	return "other"
}
