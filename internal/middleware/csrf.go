package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/services"
)

const csrfSessionKey = "csrf_token"

// CSRFMiddleware provides CSRF protection functionality
type CSRFMiddleware struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(sessions *services.SessionService, logger *logrus.Logger) *CSRFMiddleware {
	return &CSRFMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// EnsureCSRFToken makes sure the session carries a CSRF token and exposes
// it to templates through the context
func (m *CSRFMiddleware) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.sessions.Value(r, csrfSessionKey)
		if !ok || token == "" {
			token = GenerateCSRFToken()
			if err := m.sessions.SetValue(w, r, csrfSessionKey, token); err != nil {
				m.logger.WithError(err).Warn("Failed to store CSRF token")
			}
		}

		ctx := SetCSRFContext(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRFProtection rejects state-changing requests without the session token
func (m *CSRFMiddleware) CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip CSRF check for safe methods
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		sessionToken, _ := m.sessions.Value(r, csrfSessionKey)

		requestToken := r.Header.Get("X-CSRF-Token")
		if requestToken == "" {
			requestToken = r.FormValue("csrf_token")
		}

		if sessionToken == "" || subtle.ConstantTimeCompare([]byte(requestToken), []byte(sessionToken)) != 1 {
			m.logger.WithFields(logrus.Fields{
				"path":   r.URL.Path,
				"method": r.Method,
			}).Warn("CSRF token mismatch")
			writeFailure(w, r, http.StatusForbidden, "Security token mismatch. Please refresh the page and try again.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
