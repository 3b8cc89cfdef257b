// Package models - API response types and error handling.
// This file defines the outgoing response structures shared by all endpoints.
//
// Response conventions:
// - Error bodies always carry a human-readable "error" and a machine-readable "code"
// - Optional fields use omitempty
// - RFC3339 timestamps
package models

import (
	"time"
)

// ErrorResponse is the body of every 4xx/5xx response except 429.
type ErrorResponse struct {
	Error     string    `json:"error"`             // Human-readable error description
	Code      string    `json:"code,omitempty"`    // Machine-readable error code
	Details   string    `json:"details,omitempty"` // Diagnostic detail (upstream failures)
	Timestamp time.Time `json:"timestamp"`         // Error occurrence time
}

// RateLimitResponse is the body of a 429 response.
type RateLimitResponse struct {
	Error   string    `json:"error"`
	Code    string    `json:"code"`
	Limit   int       `json:"limit"`
	ResetAt time.Time `json:"resetAt"`
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalChecks      int64            `json:"total_checks"`
	FallbackChecks   int64            `json:"fallback_checks"`
	TotalCorrections int64            `json:"total_corrections"`
	ByLanguage       map[string]int64 `json:"by_language"`
	Backend          string           `json:"backend"`
	Timestamp        time.Time        `json:"timestamp"`
}

// Health Status Constants
const (
	StatusOK        = "ok"        // All systems operational
	StatusDegraded  = "degraded"  // A non-critical component is failing
	StatusUnhealthy = "unhealthy" // Component is down
)

// Error codes returned in ErrorResponse.Code
const (
	ErrorCodeInvalidInput   = "INVALID_INPUT"   // 400: missing text or language
	ErrorCodeInvalidRequest = "INVALID_REQUEST" // 400/405: malformed request
	ErrorCodeUnauthorized   = "UNAUTHORIZED"    // 401: access password missing or wrong
	ErrorCodeNotFound       = "NOT_FOUND"       // 404
	ErrorCodeRateLimited    = "RATE_LIMITED"    // 429: per-client window exhausted
	ErrorCodeUpstream       = "UPSTREAM_ERROR"  // 500: completion service failed
	ErrorCodeInternalError  = "INTERNAL_ERROR"  // 500: server-side error
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

func NewRateLimitResponse(limit int, resetAt time.Time) *RateLimitResponse {
	return &RateLimitResponse{
		Error:   "Rate limit exceeded",
		Code:    ErrorCodeRateLimited,
		Limit:   limit,
		ResetAt: resetAt,
	}
}

func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}
}

func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}
