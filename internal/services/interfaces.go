package services

import (
	"context"
	"net/http"

	"concertfever-storefront/internal/models"
)

// Backend is the ConcertFever REST API. Every state change of the
// storefront goes through it.
type Backend interface {
	// Users
	CheckUserPassword(ctx context.Context, email, password string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserLoginTime(ctx context.Context, email string) error
	CreateNewUser(ctx context.Context, req *models.NewUserRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ChangeUserPassword(ctx context.Context, req *models.ChangePasswordRequest) error
	GetUserAccountBalance(ctx context.Context, email string) (float64, error)
	TopUpAccountBalance(ctx context.Context, email string, amount float64) error

	// Events
	GetAllEvents(ctx context.Context) ([]*models.Event, error)
	GetEventsByCategory(ctx context.Context, category string) ([]*models.Event, error)
	GetEventByID(ctx context.Context, eventID int) (*models.Event, error)

	// Tickets
	PurchaseTickets(ctx context.Context, req *models.PurchaseRequest) error
	GetUserTickets(ctx context.Context, email string) ([]*models.Ticket, error)
}

// CartStorage persists the cart of one browser between requests.
type CartStorage interface {
	Load(r *http.Request) ([]models.CartItem, error)
	Save(w http.ResponseWriter, r *http.Request, items []models.CartItem) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// SessionStore reads and writes the per-browser UserSession.
type SessionStore interface {
	Load(r *http.Request) models.UserSession
	Update(w http.ResponseWriter, r *http.Request, patch models.SessionPatch) (models.UserSession, error)
	Reset(w http.ResponseWriter, r *http.Request) error
}
