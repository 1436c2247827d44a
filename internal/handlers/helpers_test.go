package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/config"
	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/server"
	"concertfever-storefront/internal/services"
)

const testQRService = "https://qr.test/create"

// csrfPattern matches the hidden form field and the layout meta tag.
var csrfPattern = regexp.MustCompile(`(?:name="csrf_token" value|name="csrf-token" content)="([0-9a-f]+)"`)

// browser drives the storefront over HTTP with a cookie jar, like a real
// browser that does not follow redirects.
type browser struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	csrf   string
}

type page struct {
	status int
	header http.Header
	body   string
}

func newTestConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{Mode: config.BackendModeMock},
		Store: config.StoreConfig{
			QRServiceURL:  testQRService,
			PromoCouponID: 1,
			SignupBalance: 1000,
		},
		Security: config.SecurityConfig{
			LoginMaxAttempts: 3,
			LoginWindow:      time.Minute,
		},
	}
}

// newTestApp serves the full router backed by a mock backend holding events.
func newTestApp(t *testing.T, events ...*models.Event) (*services.MockBackend, *browser) {
	t.Helper()
	return newTestAppWithConfig(t, newTestConfig(), events...)
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config, events ...*models.Event) (*services.MockBackend, *browser) {
	t.Helper()

	backend := services.NewMockBackend()
	if len(events) > 0 {
		backend.SetEvents(events)
	}

	logger := logging.Discard()
	sessions := services.NewSessionService(services.NewCookieStore("handlers-test-secret-0123456789", false), logger)
	router := server.NewRouter(server.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Backend:   backend,
		Sessions:  sessions,
		Carts:     services.NewCookieCartStorage(false),
		StaticDir: t.TempDir(),
		AssetsDir: t.TempDir(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		router.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return backend, &browser{
		t:      t,
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	if m := csrfPattern.FindStringSubmatch(string(body)); m != nil {
		b.csrf = m[1]
	}
	return page{status: resp.StatusCode, header: resp.Header, body: string(body)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.server.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	return b.do(b.newPost(path, form))
}

func (b *browser) postHTMX(path string, form url.Values) page {
	b.t.Helper()
	req := b.newPost(path, form)
	req.Header.Set("HX-Request", "true")
	return b.do(req)
}

// newPost fills in the CSRF token, fetching a page first if none is known.
func (b *browser) newPost(path string, form url.Values) *http.Request {
	b.t.Helper()
	if b.csrf == "" {
		b.get("/")
		require.NotEmpty(b.t, b.csrf, "no csrf token rendered")
	}
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", b.csrf)
	}

	req, err := http.NewRequest(http.MethodPost, b.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// signIn registers an account on the backend and signs the browser in.
func (b *browser) signIn(backend *services.MockBackend, balance float64) *models.User {
	b.t.Helper()
	user := backend.AddUser("Ada", "Lovelace", "ada@example.com", "secret", balance)
	p := b.post("/signin", url.Values{"email": {user.Email}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, p.status)
	return user
}

func eventFixture(id int, name, category string, prices ...float64) *models.Event {
	codes := []string{"A", "B", "C"}
	event := &models.Event{
		EventID:     id,
		EventName:   name,
		Description: fmt.Sprintf("%s description", name),
		StartDate:   "2026-11-06T19:00:00",
		EndDate:     "2026-11-06T23:00:00",
		Category:    category,
		Venue:       models.Venue{VenueName: "Test Arena", Country: "Kenya", Address: "1 Main Road"},
	}
	for i, price := range prices {
		event.TicketCategories = append(event.TicketCategories, models.TicketCategory{
			Category: codes[i],
			Price:    price,
		})
	}
	return event
}

func countCards(body string) int {
	return strings.Count(body, `class="card event-card"`)
}
