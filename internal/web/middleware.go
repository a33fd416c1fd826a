package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/duka/loanbook/internal/auth"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "loanbook_session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// claimsKey is the context key for storing the authenticated session claims.
const claimsKey contextKey = "session_claims"

// GetClaims extracts the session claims from the context.
// Returns nil if the request is not authenticated.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// requireSession wraps a handler so it only runs with a valid session
// cookie. Requests without one are redirected to the login page, carrying
// the original path so login can return there.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			s.redirectToLogin(w, r)
			return
		}

		claims, err := s.sessions.Validate(cookie.Value)
		if err != nil {
			slog.Debug("Session rejected", "path", r.URL.Path, "error", err)
			s.redirectToLogin(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withObservability logs every request and records prometheus metrics,
// labeled by the mux pattern that matched rather than the raw path.
func withObservability(mux *http.ServeMux, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		_, pattern := mux.Handler(r)
		if pattern == "" {
			pattern = "unmatched"
		}
		duration := time.Since(start)

		requestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, pattern).Observe(duration.Seconds())

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds(),
		)
	})
}
