package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"textchecker/internal/checker"
	"textchecker/internal/models"
	"textchecker/internal/ratelimit"
	"textchecker/internal/version"
)

// DefaultMaxBodyBytes bounds a check request body.
const DefaultMaxBodyBytes int64 = 10 << 20

// AccessPasswordHeader carries the shared access password.
const AccessPasswordHeader = "X-Access-Password"

// Handlers contains HTTP handlers for the text checker API
type Handlers struct {
	service      checker.ServiceInterface
	maxBodyBytes int64
	version      version.Info
	proxies      *ratelimit.ProxyTrust
}

// HandlerOption configures optional handler dependencies.
type HandlerOption func(*Handlers)

// WithMaxBodyBytes overrides the request body limit. Non-positive values keep
// the default.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithVersion sets the build info reported by the health endpoint.
func WithVersion(info version.Info) HandlerOption {
	return func(h *Handlers) {
		h.version = info
	}
}

// WithProxyTrust sets the peers whose forwarding headers name the client.
// Without it every request is keyed by its socket address.
func WithProxyTrust(pt *ratelimit.ProxyTrust) HandlerOption {
	return func(h *Handlers) {
		h.proxies = pt
	}
}

// NewHandlers creates a new handlers instance
func NewHandlers(service checker.ServiceInterface, opts ...HandlerOption) *Handlers {
	h := &Handlers{
		service:      service,
		maxBodyBytes: DefaultMaxBodyBytes,
		version:      version.GetInfo(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CheckText handles grammar check requests
// POST /check-text
func (h *Handlers) CheckText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req models.CheckTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeErrorResponse(w, http.StatusRequestEntityTooLarge, models.ErrorCodeInvalidRequest, "Request body too large")
			return
		}
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	req.ClientID = h.proxies.ClientIP(r)
	req.Credential = r.Header.Get(AccessPasswordHeader)

	result, err := h.service.Check(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusOK)
	response.Version = h.version.Version
	response.Uptime = version.Uptime().Round(time.Second).String()

	response.AddComponent("api", models.StatusOK, "API is operational")
	if err := h.service.Ping(r.Context()); err != nil {
		slog.Warn("History backend unavailable", "error", err)
		response.Status = models.StatusDegraded
		response.AddComponent("history", models.StatusUnhealthy, err.Error())
	} else {
		response.AddComponent("history", models.StatusOK, "History is operational")
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// Stats returns aggregate check history
// GET /api/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, stats)
}

// writeServiceError maps a checker error to its HTTP response. Rate limit
// rejections get their own body shape and headers.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var se *checker.ServiceError
	if !errors.As(err, &se) {
		slog.Error("Unclassified service error", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
		return
	}

	if se.Code == models.ErrorCodeRateLimited {
		if se.RateLimit != nil {
			ratelimit.WriteHeaders(w, *se.RateLimit)
		}
		h.writeJSONResponse(w, se.StatusCode, &models.RateLimitResponse{
			Error:   se.Message,
			Code:    se.Code,
			Limit:   se.Limit,
			ResetAt: se.ResetAt,
		})
		return
	}

	errorResp := models.NewErrorResponse(se.Message, se.Code)
	errorResp.Details = se.Details
	h.writeJSONResponse(w, se.StatusCode, errorResp)
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing more can be sent.
		slog.Error("Error encoding JSON response", "error", err)
	}
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSONResponse(w, statusCode, models.NewErrorResponse(message, errorCode))
}
