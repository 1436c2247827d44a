package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/utils"
)

type contextKey string

const (
	SessionContextKey contextKey = "session"
	CSRFContextKey    contextKey = "csrf_token"
)

// GetSessionFromContext retrieves the user session from request context.
// Requests that never went through LoadSession are anonymous.
func GetSessionFromContext(ctx context.Context) models.UserSession {
	session, ok := ctx.Value(SessionContextKey).(models.UserSession)
	if !ok {
		return models.AnonymousSession()
	}
	return session
}

// SetSessionContext sets the user session in the context
func SetSessionContext(ctx context.Context, session models.UserSession) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// RequireLogin sends anonymous visitors to the sign in page
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSessionFromContext(r.Context()).LoggedIn {
			if IsHTMXRequest(r) {
				// For HTMX requests, return a redirect header
				w.Header().Set("HX-Redirect", "/signin")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateCSRFToken generates a CSRF token for the session
func GenerateCSRFToken() string {
	token, err := utils.GenerateToken(32)
	if err != nil {
		// timestamp fallback stays hex so the form field format holds
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return token
}

// SetCSRFContext sets the CSRF token in the context
func SetCSRFContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFContextKey, token)
}

// GetCSRFToken returns the token EnsureCSRFToken put in the context
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFContextKey).(string)
	return token
}
