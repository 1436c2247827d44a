package middleware

import (
	"net/http"

	"concertfever-storefront/internal/services"
)

// SessionMiddleware puts the browser's UserSession in the request context
type SessionMiddleware struct {
	carts *services.CartService
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(carts *services.CartService) *SessionMiddleware {
	return &SessionMiddleware{carts: carts}
}

// LoadSession loads the session and re-derives its cart count from the
// cart storage, so the badge is right after a reload.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.carts.SyncCount(w, r)
		next.ServeHTTP(w, r.WithContext(SetSessionContext(r.Context(), session)))
	})
}

// SecureHeaders adds security headers to responses
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:;")

		// Only set HSTS for HTTPS
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
