package checker

import (
	"context"

	"textchecker/internal/models"
)

// ServiceInterface defines the interface for text check operations
type ServiceInterface interface {
	// Check validates, admits and authorizes req, then returns the normalized
	// model result
	Check(ctx context.Context, req *models.CheckTextRequest) (*models.CorrectionResult, error)

	// Authorize checks an access password credential
	Authorize(credential string) error

	// Stats returns aggregate check history
	Stats(ctx context.Context) (*models.StatsResponse, error)

	// Ping checks the history backend
	Ping(ctx context.Context) error
}

// Metrics receives check outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordCheck(ctx context.Context, language string, result *models.CorrectionResult)
	RecordRejection(ctx context.Context, code string)
}

type nopMetrics struct{}

func (nopMetrics) RecordCheck(context.Context, string, *models.CorrectionResult) {}
func (nopMetrics) RecordRejection(context.Context, string)                       {}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
