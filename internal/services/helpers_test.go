package services

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/mock"

	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
)

// browser replays the cookies set by previous responses, like a real
// browser would.
type browser struct {
	cookies map[string]*http.Cookie
}

func newBrowser() *browser {
	return &browser{cookies: make(map[string]*http.Cookie)}
}

func (b *browser) request(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

// absorb stores the cookies of rec; the last Set-Cookie of a name wins.
func (b *browser) absorb(rec *httptest.ResponseRecorder) {
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
}

func newTestSessions() *SessionService {
	return NewSessionService(NewCookieStore("test-secret-0123456789abcdef0123", false), logging.Discard())
}

// mockBackend is a testify mock of Backend
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CheckUserPassword(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}

func (m *mockBackend) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockBackend) UpdateUserLoginTime(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockBackend) CreateNewUser(ctx context.Context, req *models.NewUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockBackend) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockBackend) ChangeUserPassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockBackend) GetUserAccountBalance(ctx context.Context, email string) (float64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockBackend) TopUpAccountBalance(ctx context.Context, email string, amount float64) error {
	return m.Called(ctx, email, amount).Error(0)
}

func (m *mockBackend) GetAllEvents(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *mockBackend) GetEventsByCategory(ctx context.Context, category string) ([]*models.Event, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *mockBackend) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockBackend) PurchaseTickets(ctx context.Context, req *models.PurchaseRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockBackend) GetUserTickets(ctx context.Context, email string) ([]*models.Ticket, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func makeEvents(names ...string) []*models.Event {
	events := make([]*models.Event, 0, len(names))
	for i, name := range names {
		events = append(events, &models.Event{EventID: i + 1, EventName: name})
	}
	return events
}
