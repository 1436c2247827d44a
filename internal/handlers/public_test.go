package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/models"
)

func rockEvents(n int) []*models.Event {
	events := make([]*models.Event, 0, n+1)
	for i := 1; i <= n; i++ {
		events = append(events, eventFixture(i, fmt.Sprintf("Rock Night %d", i), models.CategoryMusic, 50, 30))
	}
	events = append(events, eventFixture(n+1, "Derby Day", models.CategorySport, 20))
	return events
}

func TestHomePage(t *testing.T) {
	_, b := newTestApp(t, rockEvents(6)...)

	p := b.get("/")

	require.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "More events")
	assert.Equal(t, 3, countCards(p.body))
	for _, category := range models.Categories {
		assert.Contains(t, p.body, `href="/events?category=`+category+`"`)
	}
	assert.Contains(t, p.body, "Sign In")
}

func TestHomePage_BackendDown(t *testing.T) {
	backend, b := newTestApp(t)
	backend.FailOn("GetAllEvents", fmt.Errorf("connection refused"))

	p := b.get("/")

	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Failed to load events.")
}

func TestEventsPage(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCards  int
		contains   []string
	}{
		{
			name:       "first page",
			path:       "/events",
			wantStatus: http.StatusOK,
			wantCards:  6,
			contains:   []string{"8 events", `href="/events?page=2"`},
		},
		{
			name:       "second page",
			path:       "/events?page=2",
			wantStatus: http.StatusOK,
			wantCards:  2,
			contains:   []string{`<span class="page-link" aria-current="page">2</span>`},
		},
		{
			name:       "page past the end is clamped",
			path:       "/events?page=99",
			wantStatus: http.StatusOK,
			wantCards:  2,
			contains:   []string{`<span class="page-link" aria-current="page">2</span>`},
		},
		{
			name:       "category filter",
			path:       "/events?category=Sport",
			wantStatus: http.StatusOK,
			wantCards:  1,
			contains:   []string{"Derby Day", `<option value="Sport" selected>`},
		},
		{
			name:       "search ignores case and keeps filters in pagination",
			path:       "/events?category=Music&q=ROCK",
			wantStatus: http.StatusOK,
			wantCards:  6,
			contains:   []string{"7 events", `href="/events?category=Music&amp;page=2&amp;q=ROCK"`},
		},
		{
			name:       "no match",
			path:       "/events?q=opera",
			wantStatus: http.StatusOK,
			wantCards:  0,
			contains:   []string{"No events match your search."},
		},
		{
			name:       "unknown category",
			path:       "/events?category=Cooking",
			wantStatus: http.StatusBadRequest,
			wantCards:  0,
			contains:   []string{"Unknown event category."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, b := newTestApp(t, rockEvents(7)...)

			p := b.get(tt.path)

			assert.Equal(t, tt.wantStatus, p.status)
			assert.Equal(t, tt.wantCards, countCards(p.body))
			for _, want := range tt.contains {
				assert.Contains(t, p.body, want)
			}
		})
	}
}

func TestEventCard_LowestPrice(t *testing.T) {
	_, b := newTestApp(t,
		eventFixture(1, "Priced", models.CategoryMusic, 80, 45.5),
		eventFixture(2, "Unpriced", models.CategoryMusic),
	)

	p := b.get("/events")

	assert.Contains(t, p.body, "From $45.50")
	assert.Contains(t, p.body, "N/A")
}

func TestEventDetailsPage(t *testing.T) {
	_, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))

	t.Run("shows the pricing table", func(t *testing.T) {
		p := b.get("/eventdetails/1")

		require.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, "Rock Night")
		assert.Contains(t, p.body, `name="qty_A"`)
		assert.Contains(t, p.body, `name="qty_B"`)
		assert.Contains(t, p.body, `<th id="pricing-total">$0.00</th>`)
		assert.Contains(t, p.body, "Please login to make a purchase")
		assert.Contains(t, p.body, `<button type="submit" class="btn btn-primary" disabled>Add to cart</button>`)
	})

	t.Run("non numeric id", func(t *testing.T) {
		p := b.get("/eventdetails/abc")

		assert.Equal(t, http.StatusNotFound, p.status)
		assert.Contains(t, p.body, "We could not find the page")
	})

	t.Run("unknown event", func(t *testing.T) {
		p := b.get("/eventdetails/999")

		assert.Equal(t, http.StatusNotFound, p.status)
		assert.Contains(t, p.body, "No event found.")
	})
}

func TestEventDetailsPage_BackendError(t *testing.T) {
	backend, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50))
	backend.FailOn("GetEventByID", fmt.Errorf("timeout"))

	p := b.get("/eventdetails/1")

	assert.Equal(t, http.StatusInternalServerError, p.status)
	assert.Contains(t, p.body, "Failed to load event.")
}

func TestUpdatePricing(t *testing.T) {
	_, b := newTestApp(t, eventFixture(1, "Rock Night", models.CategoryMusic, 50, 30))

	t.Run("full page", func(t *testing.T) {
		p := b.post("/eventdetails/1/pricing", url.Values{"qty_A": {"2"}, "qty_B": {"1"}})

		require.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, "<html")
		assert.Contains(t, p.body, "<td>$100.00</td>")
		assert.Contains(t, p.body, "<td>$30.00</td>")
		assert.Contains(t, p.body, `<th id="pricing-total">$130.00</th>`)
	})

	t.Run("htmx partial", func(t *testing.T) {
		p := b.postHTMX("/eventdetails/1/pricing", url.Values{"qty_A": {"3"}})

		require.Equal(t, http.StatusOK, p.status)
		assert.False(t, strings.Contains(p.body, "<html"))
		assert.True(t, strings.HasPrefix(p.body, `<form method="post" id="pricing-table"`))
		assert.Contains(t, p.body, `<th id="pricing-total">$150.00</th>`)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		p := b.post("/eventdetails/1/pricing", url.Values{"qty_A": {"abc"}, "qty_B": {"1"}})

		assert.Equal(t, http.StatusUnprocessableEntity, p.status)
		assert.Contains(t, p.body, "Quantity must be a number between 0 and 99.")
		assert.Contains(t, p.body, `value="abc"`)
		assert.Contains(t, p.body, `<th id="pricing-total">$30.00</th>`)
	})

	t.Run("invalid quantity over htmx still swaps", func(t *testing.T) {
		p := b.postHTMX("/eventdetails/1/pricing", url.Values{"qty_A": {"100"}})

		assert.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, "Quantity must be a number between 0 and 99.")
	})
}

func TestNotFoundPage(t *testing.T) {
	_, b := newTestApp(t)

	p := b.get("/does-not-exist")

	assert.Equal(t, http.StatusNotFound, p.status)
	assert.Contains(t, p.body, "We could not find the page")
	assert.Contains(t, p.body, "ConcertFever")
}

func TestHealth(t *testing.T) {
	_, b := newTestApp(t)

	p := b.get("/health")

	require.Equal(t, http.StatusOK, p.status)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(p.body), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "mock", body["backend"])
}

func TestSecurityHeaders(t *testing.T) {
	_, b := newTestApp(t)

	p := b.get("/")

	assert.Equal(t, "DENY", p.header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", p.header.Get("X-Content-Type-Options"))
	assert.Contains(t, p.header.Get("Content-Security-Policy"), "default-src 'self'")
}
