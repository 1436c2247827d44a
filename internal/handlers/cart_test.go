package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
)

func quantities(pairs ...string) url.Values {
	form := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		form.Set("qty_"+pairs[i], pairs[i+1])
	}
	return form
}

func TestAddToCart_RequiresLogin(t *testing.T) {
	_, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))

	p := b.post("/eventdetails/1/cart", quantities("A", "2"))

	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/signin", p.header.Get("Location"))

	cart := b.get("/cart")
	assert.Contains(t, cart.body, "Your cart is empty.")
}

func TestAddToCart(t *testing.T) {
	backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))
	b.signIn(backend, 500)

	p := b.post("/eventdetails/1/cart", quantities("A", "2"))
	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Added to cart")
	assert.Contains(t, p.body, `id="cart-count">1</span>`)

	t.Run("same category again keeps the first line", func(t *testing.T) {
		p := b.post("/eventdetails/1/cart", quantities("A", "5"))
		require.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, `id="cart-count">1</span>`)

		cart := b.get("/cart")
		assert.Contains(t, cart.body, `<th id="cart-total">$100.00</th>`)
	})

	t.Run("another category adds a line", func(t *testing.T) {
		p := b.post("/eventdetails/1/cart", quantities("A", "0", "B", "1"))
		require.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, `id="cart-count">2</span>`)

		cart := b.get("/cart")
		assert.Contains(t, cart.body, `<th id="cart-total">$130.00</th>`)
	})

	t.Run("invalid quantity adds nothing", func(t *testing.T) {
		p := b.post("/eventdetails/1/cart", quantities("A", "100"))
		assert.Equal(t, http.StatusUnprocessableEntity, p.status)
		assert.Contains(t, p.body, "Quantity must be a number between 0 and 99.")
		assert.Contains(t, p.body, `id="cart-count">2</span>`)
	})

	t.Run("nothing selected", func(t *testing.T) {
		p := b.post("/eventdetails/1/cart", quantities("A", "0"))
		assert.Equal(t, http.StatusUnprocessableEntity, p.status)
		assert.Contains(t, p.body, "Please select at least one ticket.")
	})
}

func TestAddToCart_CookieLimit(t *testing.T) {
	var events []*models.Event
	for id := 1; id <= 40; id++ {
		events = append(events, eventFixture(id, fmt.Sprintf("Long Running Festival Evening %d", id), models.CategoryMusic, 50, 30, 20))
	}
	backend, b := newTestApp(t, events...)
	b.signIn(backend, 500)

	var p page
	lines := 0
	for id := 1; id <= 40; id++ {
		p = b.post(fmt.Sprintf("/eventdetails/%d/cart", id), quantities("A", "1", "B", "1", "C", "1"))
		if p.status != http.StatusOK {
			break
		}
		lines += 3
	}

	require.Equal(t, http.StatusUnprocessableEntity, p.status)
	assert.Contains(t, p.body, "Your cart is full.")
	assert.Contains(t, p.body, fmt.Sprintf(`id="cart-count">%d</span>`, lines))
	assert.Contains(t, b.get("/cart").body, "Long Running Festival Evening 1</td>")
}

func TestCart_RemoveAndClear(t *testing.T) {
	backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))
	b.signIn(backend, 500)
	b.post("/eventdetails/1/cart", quantities("A", "2", "B", "1"))

	p := b.post("/cart/remove", url.Values{"index": {"0"}})
	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/cart", p.header.Get("Location"))

	cart := b.get("/cart")
	assert.Contains(t, cart.body, `<th id="cart-total">$30.00</th>`)
	assert.Contains(t, cart.body, `id="cart-count">1</span>`)

	p = b.post("/cart/remove", url.Values{"index": {"7"}})
	assert.Equal(t, http.StatusSeeOther, p.status)

	p = b.post("/cart/remove", url.Values{"index": {"x"}})
	assert.Equal(t, http.StatusBadRequest, p.status)

	p = b.post("/cart/clear", nil)
	assert.Equal(t, http.StatusSeeOther, p.status)

	cart = b.get("/cart")
	assert.Contains(t, cart.body, "Your cart is empty.")
	assert.NotContains(t, cart.body, `id="cart-count"`)
}

func TestCart_CorruptCookieReadsAsEmpty(t *testing.T) {
	_, b := newTestApp(t)
	u, err := url.Parse(b.server.URL)
	require.NoError(t, err)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: services.CartCookieName, Value: "%7Bbroken", Path: "/"}})

	p := b.get("/cart")

	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Your cart is empty.")
	for _, c := range b.client.Jar.Cookies(u) {
		assert.NotEqual(t, services.CartCookieName, c.Name, "corrupt cart cookie should be cleared")
	}
}

func TestCart_PostWithoutCSRFToken(t *testing.T) {
	_, b := newTestApp(t)
	b.get("/")

	req, err := http.NewRequest(http.MethodPost, b.server.URL+"/cart/clear", strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p := b.do(req)

	assert.Equal(t, http.StatusForbidden, p.status)
}

func TestCSRFToken_FromAnonymousHomePage(t *testing.T) {
	_, b := newTestApp(t)

	home := b.get("/")
	require.Equal(t, http.StatusOK, home.status)
	assert.NotContains(t, home.body, `name="csrf_token"`)
	m := csrfPattern.FindStringSubmatch(home.body)
	require.NotNil(t, m, "home page should expose the csrf meta tag")
	assert.Contains(t, home.body, `<meta name="csrf-token" content="`+m[1]+`">`)

	t.Run("form field", func(t *testing.T) {
		p := b.post("/cart/clear", url.Values{"csrf_token": {m[1]}})
		assert.Equal(t, http.StatusSeeOther, p.status)
	})

	t.Run("header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, b.server.URL+"/cart/clear", strings.NewReader(""))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-CSRF-Token", m[1])
		p := b.do(req)
		assert.Equal(t, http.StatusSeeOther, p.status)
	})
}

func TestCheckout_RequiresLogin(t *testing.T) {
	_, b := newTestApp(t)

	p := b.get("/checkout")

	assert.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/signin", p.header.Get("Location"))
}

func TestCheckout_Success(t *testing.T) {
	backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))
	user := b.signIn(backend, 150)
	b.post("/eventdetails/1/cart", quantities("A", "2", "B", "1"))

	summary := b.get("/checkout")
	require.Equal(t, http.StatusOK, summary.status)
	assert.Contains(t, summary.body, `<strong id="checkout-total">$130.00</strong>`)
	assert.Contains(t, summary.body, "Balance: $150.00")
	assert.Contains(t, summary.body, "Purchase</button>")

	p := b.post("/checkout", nil)
	require.Equal(t, http.StatusSeeOther, p.status)
	assert.Equal(t, "/", p.header.Get("Location"))

	home := b.get("/")
	assert.Contains(t, home.body, "Checkout successful!")
	assert.NotContains(t, home.body, `id="cart-count"`)
	assert.NotContains(t, b.get("/").body, "Checkout successful!", "flash is shown once")

	balance, err := backend.GetUserAccountBalance(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, 20.0, balance)

	tickets, err := backend.GetUserTickets(context.Background(), user.Email)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, 50.0, tickets[0].FinalPrice)
	assert.Equal(t, 50.0, tickets[1].FinalPrice)
	assert.Equal(t, 30.0, tickets[2].FinalPrice)

	assert.Contains(t, b.get("/cart").body, "Your cart is empty.")
}

func TestCheckout_InsufficientBalance(t *testing.T) {
	backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))
	b.signIn(backend, 10)
	b.post("/eventdetails/1/cart", quantities("A", "2"))

	summary := b.get("/checkout")
	require.Equal(t, http.StatusOK, summary.status)
	assert.Contains(t, summary.body, "Insufficient Balance - $10.00")
	assert.NotContains(t, summary.body, "Purchase</button>")

	p := b.post("/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, p.status)
	assert.Contains(t, p.body, "Insufficient balance.")

	assert.Contains(t, b.get("/cart").body, `<th id="cart-total">$100.00</th>`)
}

func TestCheckout_BackendFailures(t *testing.T) {
	t.Run("purchase rejected", func(t *testing.T) {
		backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50))
		b.signIn(backend, 500)
		b.post("/eventdetails/1/cart", quantities("A", "1"))
		backend.FailOn("PurchaseTickets", &services.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"})

		p := b.post("/checkout", nil)

		assert.Equal(t, http.StatusInternalServerError, p.status)
		assert.Contains(t, p.body, "Failed to complete checkout. Please try again.")
		assert.Contains(t, b.get("/cart").body, `<th id="cart-total">$50.00</th>`)
	})

	t.Run("balance unavailable", func(t *testing.T) {
		backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50))
		b.signIn(backend, 500)
		b.post("/eventdetails/1/cart", quantities("A", "1"))
		backend.FailOn("GetUserAccountBalance", errors.New("timeout"))

		p := b.get("/checkout")

		assert.Equal(t, http.StatusInternalServerError, p.status)
		assert.Contains(t, p.body, "Error fetching user balance.")
		assert.Contains(t, p.body, "Rock Night (A) x 1")
	})

	t.Run("empty cart", func(t *testing.T) {
		backend, b := newTestApp(t)
		b.signIn(backend, 500)

		p := b.post("/checkout", nil)

		assert.Equal(t, http.StatusSeeOther, p.status)
		assert.Equal(t, "/cart", p.header.Get("Location"))
	})
}
