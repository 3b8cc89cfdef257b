package completion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoAPIKey indicates the provider API key is not configured.
	ErrNoAPIKey = errors.New("API key not configured")

	// ErrEmptyResponse indicates the provider returned no text.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrUnsupportedProvider indicates an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported completion provider")

	// ErrNoMessages indicates Complete was called without any messages.
	ErrNoMessages = errors.New("no messages to send")
)

// APIError is a non-success response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s API error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether the provider throttled the request.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsAuthError reports whether the provider rejected the credentials.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
