package services

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
)

func newTestCartService(storage CartStorage, sessions *SessionService) *CartService {
	return NewCartService(storage, sessions, logging.Discard())
}

func jazzLine(category string, qty int, price float64) models.CartItem {
	return models.CartItem{EventID: 1, EventName: "Jazz Night", TicketCategory: category, Quantity: qty, FinalPrice: price}
}

func TestCookieCartStorage_RoundTrip(t *testing.T) {
	storage := NewCookieCartStorage(false)
	b := newBrowser()
	items := []models.CartItem{jazzLine("A", 2, 50), jazzLine("B", 1, 15.5)}

	rec := httptest.NewRecorder()
	require.NoError(t, storage.Save(rec, b.request(http.MethodPost, "/"), items))
	b.absorb(rec)

	cookie := b.cookies[CartCookieName]
	require.NotNil(t, cookie)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.Expires.IsZero())
	raw, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"eventId":1,"eventName":"Jazz Night","ticketCategory":"A","quantity":2,"finalPrice":50},
		{"eventId":1,"eventName":"Jazz Night","ticketCategory":"B","quantity":1,"finalPrice":15.5}]`, raw)

	loaded, err := storage.Load(b.request(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestCookieCartStorage_RejectsOversizedCart(t *testing.T) {
	storage := NewCookieCartStorage(false)
	var items []models.CartItem
	for i := 0; i < 200; i++ {
		items = append(items, models.CartItem{EventID: i, EventName: "Jazz & Blues Night", TicketCategory: "A", Quantity: 1, FinalPrice: 25})
	}

	rec := httptest.NewRecorder()
	err := storage.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), items)

	assert.ErrorIs(t, err, models.ErrCartTooLarge)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCartService_AddKeepsCartWhenCookieWouldOverflow(t *testing.T) {
	sessions := newTestSessions()
	carts := newTestCartService(NewCookieCartStorage(false), sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	_, err := carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 1, 25)})
	require.NoError(t, err)
	b.absorb(rec)

	var bulk []models.CartItem
	for i := 2; i < 202; i++ {
		bulk = append(bulk, models.CartItem{EventID: i, EventName: "Rock Night", TicketCategory: "B", Quantity: 2, FinalPrice: 40})
	}
	rec = httptest.NewRecorder()
	_, err = carts.Add(rec, b.request(http.MethodPost, "/"), bulk)
	assert.ErrorIs(t, err, models.ErrCartTooLarge)
	b.absorb(rec)

	items, err := carts.Items(httptest.NewRecorder(), b.request(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, []models.CartItem{jazzLine("A", 1, 25)}, items)
}

func TestCookieCartStorage_MissingAndMalformed(t *testing.T) {
	storage := NewCookieCartStorage(false)

	items, err := storage.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, items)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: url.QueryEscape("{not-json")})
	_, err = storage.Load(req)
	assert.ErrorIs(t, err, models.ErrCorruptCart)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "%zz"})
	_, err = storage.Load(req)
	assert.ErrorIs(t, err, models.ErrCorruptCart)
}

func TestCookieCartStorage_ClearExpiresCookie(t *testing.T) {
	storage := NewCookieCartStorage(false)
	rec := httptest.NewRecorder()

	require.NoError(t, storage.Clear(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartCookieName, cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.Equal(t, int64(0), cookies[0].Expires.Unix())
}

func TestSessionCartStorage_RoundTrip(t *testing.T) {
	sessions := newTestSessions()
	storage := NewSessionCartStorage(sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	require.NoError(t, storage.Save(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 1, 25)}))
	b.absorb(rec)

	loaded, err := storage.Load(b.request(http.MethodGet, "/"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "A", loaded[0].TicketCategory)

	rec = httptest.NewRecorder()
	require.NoError(t, storage.Clear(rec, b.request(http.MethodPost, "/")))
	b.absorb(rec)

	loaded, err = storage.Load(b.request(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCartService_AddSyncsCount(t *testing.T) {
	sessions := newTestSessions()
	carts := newTestCartService(NewCookieCartStorage(false), sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	items, err := carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 2, 50), jazzLine("B", 0, 0)})
	require.NoError(t, err)
	b.absorb(rec)
	assert.Len(t, items, 1)

	rec = httptest.NewRecorder()
	items, err = carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 5, 125), jazzLine("C", 1, 10)})
	require.NoError(t, err)
	b.absorb(rec)

	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity, "existing line must not be overwritten")
	assert.Equal(t, "C", items[1].TicketCategory)
	assert.Equal(t, 2, sessions.Load(b.request(http.MethodGet, "/")).Cart)
}

func TestCartService_DuplicateAddLeavesCartUnchanged(t *testing.T) {
	sessions := newTestSessions()
	carts := newTestCartService(NewCookieCartStorage(false), sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	first, err := carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 2, 50)})
	require.NoError(t, err)
	b.absorb(rec)

	rec = httptest.NewRecorder()
	second, err := carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 2, 50)})
	require.NoError(t, err)
	b.absorb(rec)

	assert.Equal(t, first, second)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	sessions := newTestSessions()
	carts := newTestCartService(NewCookieCartStorage(false), sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	_, err := carts.Add(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 1, 25), jazzLine("B", 1, 15)})
	require.NoError(t, err)
	b.absorb(rec)

	rec = httptest.NewRecorder()
	_, err = carts.Remove(rec, b.request(http.MethodPost, "/"), 5)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	rec = httptest.NewRecorder()
	items, err := carts.Remove(rec, b.request(http.MethodPost, "/"), 0)
	require.NoError(t, err)
	b.absorb(rec)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].TicketCategory)
	assert.Equal(t, 1, sessions.Load(b.request(http.MethodGet, "/")).Cart)

	rec = httptest.NewRecorder()
	require.NoError(t, carts.Clear(rec, b.request(http.MethodPost, "/")))
	b.absorb(rec)

	left, err := carts.Items(httptest.NewRecorder(), b.request(http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, 0, sessions.Load(b.request(http.MethodGet, "/")).Cart)
}

func TestCartService_CorruptCartReadsEmptyAndIsCleared(t *testing.T) {
	carts := newTestCartService(NewCookieCartStorage(false), newTestSessions())
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()

	items, err := carts.Items(rec, req)

	require.NoError(t, err)
	assert.Empty(t, items)
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == CartCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "corrupt cart cookie should be expired")
}

func TestCartService_SyncCount(t *testing.T) {
	sessions := newTestSessions()
	storage := NewCookieCartStorage(false)
	carts := newTestCartService(storage, sessions)
	b := newBrowser()

	rec := httptest.NewRecorder()
	require.NoError(t, storage.Save(rec, b.request(http.MethodPost, "/"), []models.CartItem{jazzLine("A", 1, 25), jazzLine("B", 3, 45)}))
	b.absorb(rec)
	assert.Equal(t, 0, sessions.Load(b.request(http.MethodGet, "/")).Cart)

	rec = httptest.NewRecorder()
	session := carts.SyncCount(rec, b.request(http.MethodGet, "/"))
	b.absorb(rec)

	assert.Equal(t, 2, session.Cart)
	assert.Equal(t, 2, sessions.Load(b.request(http.MethodGet, "/")).Cart)
}
