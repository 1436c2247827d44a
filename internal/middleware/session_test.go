package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
)

func TestLoadSession_PutsSessionInContextWithCartCount(t *testing.T) {
	sessions := newTestSessions()
	storage := services.NewCookieCartStorage(false)
	carts := services.NewCartService(storage, sessions, logging.Discard())
	m := NewSessionMiddleware(carts)

	rec := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodPost, "/", nil)
	_, err := sessions.Update(rec, seed, models.SignedInPatch(&models.User{UserID: 4, FirstName: "Ada", Email: "ada@example.com"}))
	require.NoError(t, err)
	require.NoError(t, storage.Save(rec, seed, []models.CartItem{
		{EventID: 1, TicketCategory: "A", Quantity: 1, FinalPrice: 10},
		{EventID: 2, TicketCategory: "A", Quantity: 1, FinalPrice: 10},
	}))

	var seen models.UserSession
	handler := m.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), carry(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.True(t, seen.LoggedIn)
	assert.Equal(t, "ada@example.com", seen.Email)
	assert.Equal(t, 2, seen.Cart)
}

func TestGetSessionFromContext_DefaultsToAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, models.AnonymousSession(), GetSessionFromContext(req.Context()))
}

func TestRequireLogin(t *testing.T) {
	handler := RequireLogin(okHandler)

	tests := []struct {
		name         string
		session      models.UserSession
		htmx         bool
		wantStatus   int
		wantLocation string
		wantHX       string
	}{
		{"anonymous", models.AnonymousSession(), false, http.StatusSeeOther, "/signin", ""},
		{"anonymous htmx", models.AnonymousSession(), true, http.StatusUnauthorized, "", "/signin"},
		{"signed in", models.UserSession{LoggedIn: true, Email: "a@b.co"}, false, http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mytickets", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			req = req.WithContext(SetSessionContext(req.Context(), tt.session))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantHX, rec.Header().Get("HX-Redirect"))
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	SecureHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}
