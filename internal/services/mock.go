package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/utils"
)

// MockTemporaryPassword is what ForgotPassword resets an account to.
const MockTemporaryPassword = "temporary"

// MockBackend is an in-memory Backend used for demo mode and tests.
type MockBackend struct {
	mu           sync.Mutex
	users        map[string]*mockUser
	events       []*models.Event
	tickets      []*models.Ticket
	nextUserID   int
	nextTicketID int
	failures     map[string]error
}

type mockUser struct {
	user      models.User
	hash      string
	balance   float64
	lastLogin time.Time
}

// NewMockBackend creates a mock backend seeded with the demo catalogue
func NewMockBackend() *MockBackend {
	m := &MockBackend{
		users:        make(map[string]*mockUser),
		events:       seedEvents(),
		nextUserID:   1,
		nextTicketID: 1,
		failures:     make(map[string]error),
	}
	return m
}

// AddUser registers a user directly and returns its record.
func (m *MockBackend) AddUser(firstName, lastName, email, password string, balance float64) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, err := m.addUserLocked(firstName, lastName, email, password, balance)
	if err != nil {
		panic(err)
	}
	return record
}

func (m *MockBackend) addUserLocked(firstName, lastName, email, password string, balance float64) (*models.User, error) {
	hash, err := utils.HashPassword(password, utils.LightPasswordHashConfig())
	if err != nil {
		return nil, err
	}
	u := &mockUser{
		user: models.User{
			UserID:    m.nextUserID,
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
		},
		hash:    hash,
		balance: balance,
	}
	m.nextUserID++
	m.users[strings.ToLower(email)] = u
	record := u.user
	return &record, nil
}

// SetEvents replaces the catalogue.
func (m *MockBackend) SetEvents(events []*models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// FailOn makes the named Backend method return err until cleared with a nil err.
func (m *MockBackend) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// LastLogin returns when UpdateUserLoginTime was last called for email.
func (m *MockBackend) LastLogin(email string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[strings.ToLower(email)]; ok {
		return u.lastLogin
	}
	return time.Time{}
}

func (m *MockBackend) failure(method string) error {
	return m.failures[method]
}

func (m *MockBackend) findUser(email string) (*mockUser, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, &APIError{StatusCode: 404, Message: fmt.Sprintf("user %s not found", email)}
	}
	return u, nil
}

func (m *MockBackend) CheckUserPassword(ctx context.Context, email, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CheckUserPassword"); err != nil {
		return false, err
	}
	u, err := m.findUser(email)
	if err != nil {
		return false, err
	}
	return utils.VerifyPassword(password, u.hash)
}

func (m *MockBackend) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetUserByEmail"); err != nil {
		return nil, err
	}
	u, err := m.findUser(email)
	if err != nil {
		return nil, err
	}
	record := u.user
	return &record, nil
}

func (m *MockBackend) UpdateUserLoginTime(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateUserLoginTime"); err != nil {
		return err
	}
	u, err := m.findUser(email)
	if err != nil {
		return err
	}
	u.lastLogin = time.Now()
	return nil
}

func (m *MockBackend) CreateNewUser(ctx context.Context, req *models.NewUserRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateNewUser"); err != nil {
		return err
	}
	if _, exists := m.users[strings.ToLower(req.Email)]; exists {
		return &APIError{StatusCode: 409, Message: "email already registered"}
	}
	_, err := m.addUserLocked(req.FirstName, req.LastName, req.Email, req.Password, req.AccountBalance)
	return err
}

func (m *MockBackend) ForgotPassword(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ForgotPassword"); err != nil {
		return err
	}
	u, err := m.findUser(email)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(MockTemporaryPassword, utils.LightPasswordHashConfig())
	if err != nil {
		return err
	}
	u.hash = hash
	return nil
}

func (m *MockBackend) ChangeUserPassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ChangeUserPassword"); err != nil {
		return err
	}
	u, err := m.findUser(req.Email)
	if err != nil {
		return err
	}
	ok, err := utils.VerifyPassword(req.CurrentPassword, u.hash)
	if err != nil {
		return err
	}
	if !ok {
		return &APIError{StatusCode: 400, Message: "current password does not match"}
	}
	hash, err := utils.HashPassword(req.NewPassword, utils.LightPasswordHashConfig())
	if err != nil {
		return err
	}
	u.hash = hash
	return nil
}

func (m *MockBackend) GetUserAccountBalance(ctx context.Context, email string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetUserAccountBalance"); err != nil {
		return 0, err
	}
	u, err := m.findUser(email)
	if err != nil {
		return 0, err
	}
	return u.balance, nil
}

func (m *MockBackend) TopUpAccountBalance(ctx context.Context, email string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("TopUpAccountBalance"); err != nil {
		return err
	}
	u, err := m.findUser(email)
	if err != nil {
		return err
	}
	u.balance = models.RoundPrice(u.balance + amount)
	return nil
}

func (m *MockBackend) GetAllEvents(ctx context.Context) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetAllEvents"); err != nil {
		return nil, err
	}
	events := make([]*models.Event, len(m.events))
	copy(events, m.events)
	return events, nil
}

func (m *MockBackend) GetEventsByCategory(ctx context.Context, category string) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetEventsByCategory"); err != nil {
		return nil, err
	}
	var events []*models.Event
	for _, e := range m.events {
		if strings.EqualFold(e.Category, category) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockBackend) GetEventByID(ctx context.Context, eventID int) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetEventByID"); err != nil {
		return nil, err
	}
	for _, e := range m.events {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, &APIError{StatusCode: 404, Message: fmt.Sprintf("event %d not found", eventID)}
}

// PurchaseTickets debits the buyer and records one ticket per itemized unit.
func (m *MockBackend) PurchaseTickets(ctx context.Context, req *models.PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("PurchaseTickets"); err != nil {
		return err
	}

	var buyer *mockUser
	for _, u := range m.users {
		if u.user.UserID == req.UserID {
			buyer = u
			break
		}
	}
	if buyer == nil {
		return &APIError{StatusCode: 404, Message: "user not found"}
	}

	total := 0.0
	for _, t := range req.Tickets {
		total += t.FinalPrice
	}
	total = models.RoundPrice(total)
	if total > buyer.balance {
		return &APIError{StatusCode: 400, Message: "insufficient balance"}
	}

	now := time.Now().Format("2006-01-02T15:04:05")
	for _, t := range req.Tickets {
		var event *models.Event
		for _, e := range m.events {
			if e.EventID == t.EventID {
				event = e
				break
			}
		}
		if event == nil {
			return &APIError{StatusCode: 404, Message: fmt.Sprintf("event %d not found", t.EventID)}
		}
		m.tickets = append(m.tickets, &models.Ticket{
			TicketID:       m.nextTicketID,
			EventID:        event.EventID,
			EventName:      event.EventName,
			VenueName:      event.Venue.VenueName,
			VenueCountry:   event.Venue.Country,
			EventStartDate: event.StartDate,
			EventEndDate:   event.EndDate,
			UserID:         buyer.user.UserID,
			UserEmail:      buyer.user.Email,
			TicketCategory: t.TicketCategory,
			FinalPrice:     t.FinalPrice,
			PurchaseDate:   now,
		})
		m.nextTicketID++
	}
	buyer.balance = models.RoundPrice(buyer.balance - total)
	return nil
}

func (m *MockBackend) GetUserTickets(ctx context.Context, email string) ([]*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("GetUserTickets"); err != nil {
		return nil, err
	}
	var tickets []*models.Ticket
	for _, t := range m.tickets {
		if strings.EqualFold(t.UserEmail, email) {
			tickets = append(tickets, t)
		}
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].TicketID < tickets[j].TicketID
	})
	return tickets, nil
}

func seedEvents() []*models.Event {
	type seed struct {
		name, category, venue, country, city string
		prices                               []float64
	}
	seeds := []seed{
		{"Coldplay: Music of the Spheres", models.CategoryMusic, "Wembley Stadium", "United Kingdom", "London", []float64{180, 120, 75}},
		{"Jazz Under the Stars", models.CategoryMusic, "Blue Note", "United States", "New York", []float64{95, 60}},
		{"Champions League Final", models.CategorySport, "Allianz Arena", "Germany", "Munich", []float64{450, 250, 120}},
		{"City Marathon Grandstand", models.CategorySport, "Olympic Park", "Australia", "Sydney", []float64{40, 25}},
		{"Impressionist Masters", models.CategoryExhibition, "Musee d'Orsay", "France", "Paris", []float64{22, 15}},
		{"Future Tech Expo", models.CategoryExhibition, "Marina Bay Sands", "Singapore", "Singapore", []float64{65, 35}},
		{"Startup Leadership Summit", models.CategoryBusiness, "Moscone Center", "United States", "San Francisco", []float64{299, 149}},
		{"Global Finance Forum", models.CategoryBusiness, "Messe Frankfurt", "Germany", "Frankfurt", []float64{350}},
		{"Wildlife Photography Week", models.CategoryPhotography, "Natural History Museum", "United Kingdom", "London", []float64{18, 12}},
		{"Street Photography Walk", models.CategoryPhotography, "Shibuya Crossing", "Japan", "Tokyo", []float64{30}},
		{"Symphony in the Park", models.CategoryMusic, "Central Park", "United States", "New York", []float64{55, 30, 15}},
		{"Grand Slam Tennis Day", models.CategorySport, "Rod Laver Arena", "Australia", "Melbourne", []float64{210, 140}},
	}
	codes := []string{"A", "B", "C"}

	events := make([]*models.Event, 0, len(seeds))
	start := time.Date(2026, time.November, 6, 19, 0, 0, 0, time.UTC)
	for i, s := range seeds {
		begins := start.AddDate(0, 0, 9*i)
		event := &models.Event{
			EventID:     i + 1,
			EventName:   s.name,
			Description: fmt.Sprintf("%s at %s, %s.", s.name, s.venue, s.city),
			StartDate:   begins.Format("2006-01-02T15:04:05"),
			EndDate:     begins.Add(4 * time.Hour).Format("2006-01-02T15:04:05"),
			Category:    s.category,
			Venue: models.Venue{
				VenueID:   i + 1,
				VenueName: s.venue,
				Country:   s.country,
				City:      s.city,
				Address:   s.city + " center",
				PinCode:   fmt.Sprintf("%05d", 10000+i*137),
			},
		}
		for j, price := range s.prices {
			event.TicketCategories = append(event.TicketCategories, models.TicketCategory{
				Category:          codes[j],
				Price:             price,
				TotalQuantity:     500,
				RemainingQuantity: 500,
			})
		}
		events = append(events, event)
	}
	return events
}
