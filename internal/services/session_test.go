package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/models"
)

func TestSessionService_LoadDefaultsToAnonymous(t *testing.T) {
	sessions := newTestSessions()

	session := sessions.Load(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, models.AnonymousSession(), session)
}

func TestSessionService_UpdateSurvivesReload(t *testing.T) {
	sessions := newTestSessions()
	b := newBrowser()

	rec := httptest.NewRecorder()
	user := &models.User{UserID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	_, err := sessions.Update(rec, b.request(http.MethodPost, "/signin"), models.SignedInPatch(user))
	require.NoError(t, err)
	b.absorb(rec)

	cookie := b.cookies[SessionName]
	require.NotNil(t, cookie)
	assert.Equal(t, 0, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	rec = httptest.NewRecorder()
	updated, err := sessions.Update(rec, b.request(http.MethodPost, "/cart"), models.CartCountPatch(2))
	require.NoError(t, err)
	b.absorb(rec)

	assert.Equal(t, 2, updated.Cart)
	assert.Equal(t, "ada@example.com", updated.Email)

	reloaded := sessions.Load(b.request(http.MethodGet, "/"))
	assert.True(t, reloaded.LoggedIn)
	assert.Equal(t, 7, *reloaded.UserID)
	assert.Equal(t, 2, reloaded.Cart)
}

func TestSessionService_Reset(t *testing.T) {
	sessions := newTestSessions()
	b := newBrowser()

	rec := httptest.NewRecorder()
	_, err := sessions.Update(rec, b.request(http.MethodPost, "/"), models.SignedInPatch(&models.User{UserID: 1, Email: "a@b.co"}))
	require.NoError(t, err)
	b.absorb(rec)

	rec = httptest.NewRecorder()
	require.NoError(t, sessions.Reset(rec, b.request(http.MethodPost, "/logout")))
	b.absorb(rec)

	assert.Equal(t, models.AnonymousSession(), sessions.Load(b.request(http.MethodGet, "/")))
}

func TestSessionService_TamperedCookieIsAnonymous(t *testing.T) {
	sessions := newTestSessions()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "forged-value"})

	assert.Equal(t, models.AnonymousSession(), sessions.Load(req))
}

func TestSessionService_Flashes(t *testing.T) {
	sessions := newTestSessions()
	b := newBrowser()

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.AddFlash(rec, b.request(http.MethodPost, "/checkout"), "Checkout successful!"))
	b.absorb(rec)

	rec = httptest.NewRecorder()
	assert.Equal(t, []string{"Checkout successful!"}, sessions.Flashes(rec, b.request(http.MethodGet, "/")))
	b.absorb(rec)

	rec = httptest.NewRecorder()
	assert.Empty(t, sessions.Flashes(rec, b.request(http.MethodGet, "/")))
}

func TestSessionService_EnsureCartIDIsStable(t *testing.T) {
	sessions := newTestSessions()
	b := newBrowser()

	_, ok := sessions.CartID(b.request(http.MethodGet, "/"))
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	id, err := sessions.EnsureCartID(rec, b.request(http.MethodPost, "/"))
	require.NoError(t, err)
	require.NotEmpty(t, id)
	b.absorb(rec)

	rec = httptest.NewRecorder()
	again, err := sessions.EnsureCartID(rec, b.request(http.MethodPost, "/"))
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
