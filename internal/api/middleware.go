package api

import (
	"log/slog"
	"net/http"

	"textchecker/internal/models"

	"github.com/gorilla/mux"
)

// Authorizer checks an access password credential.
type Authorizer interface {
	Authorize(credential string) error
}

// RequireAccessPassword creates middleware that rejects requests whose
// X-Access-Password header the authorizer does not accept.
func RequireAccessPassword(auth Authorizer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authorize(r.Header.Get(AccessPasswordHeader)); err != nil {
				slog.Warn("Access password rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr)
				writeJSON(w, http.StatusUnauthorized,
					models.NewErrorResponse("Invalid or missing access password", models.ErrorCodeUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
