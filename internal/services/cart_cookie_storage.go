package services

import (
	"net/http"
	"net/url"
	"time"

	"concertfever-storefront/internal/models"
)

// CartCookieName is the cookie holding the cart
const CartCookieName = "cart"

// MaxCartCookieSize caps name=value of the cart cookie. Browsers drop
// larger cookies silently.
const MaxCartCookieSize = 4096

// CookieCartStorage keeps the cart in the browser as a JSON cookie without
// an expiry, so it lives as long as the browser session.
type CookieCartStorage struct {
	secure bool
}

// NewCookieCartStorage creates a cookie-backed cart storage
func NewCookieCartStorage(secure bool) *CookieCartStorage {
	return &CookieCartStorage{secure: secure}
}

func (s *CookieCartStorage) Load(r *http.Request) ([]models.CartItem, error) {
	cookie, err := r.Cookie(CartCookieName)
	if err != nil {
		return []models.CartItem{}, nil
	}
	// net/http strips quotes from cookie values, so the JSON is escaped
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil, models.ErrCorruptCart
	}
	return decodeCart(raw)
}

func (s *CookieCartStorage) Save(w http.ResponseWriter, r *http.Request, items []models.CartItem) error {
	raw, err := encodeCart(items)
	if err != nil {
		return err
	}
	value := url.QueryEscape(raw)
	if len(CartCookieName)+1+len(value) > MaxCartCookieSize {
		return models.ErrCartTooLarge
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieCartStorage) Clear(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
