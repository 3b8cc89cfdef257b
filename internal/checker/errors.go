package checker

import (
	"fmt"
	"net/http"
	"time"

	"textchecker/internal/models"
	"textchecker/internal/ratelimit"
)

// ServiceError represents errors from the checker service with HTTP context
type ServiceError struct {
	Code       string
	Message    string
	StatusCode int
	Details    string
	Err        error

	// Set only for rate limit rejections
	Limit     int
	ResetAt   time.Time
	RateLimit *ratelimit.Decision
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Error constructors for common service errors

func NewInvalidInputError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

func NewRateLimitedError(d ratelimit.Decision) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeRateLimited,
		Message:    "Too many requests. Please try again later.",
		StatusCode: http.StatusTooManyRequests,
		Limit:      d.Limit,
		ResetAt:    d.ResetAt,
		RateLimit:  &d,
	}
}

func NewUnauthorizedError() *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeUnauthorized,
		Message:    "Invalid or missing access password",
		StatusCode: http.StatusUnauthorized,
	}
}

func NewUpstreamError(err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeUpstream,
		Message:    "Failed to check text",
		StatusCode: http.StatusInternalServerError,
		Details:    err.Error(),
		Err:        err,
	}
}

func NewInternalError(message string, err error) *ServiceError {
	se := &ServiceError{
		Code:       models.ErrorCodeInternalError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}
