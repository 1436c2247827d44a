package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// CheckoutSummary is what the checkout page shows
type CheckoutSummary struct {
	Items       []models.CartItem
	Total       float64
	Balance     float64
	CanPurchase bool
}

// BalanceMessage is shown when the balance does not cover the cart.
func (s CheckoutSummary) BalanceMessage() string {
	if s.CanPurchase {
		return ""
	}
	return fmt.Sprintf("Insufficient Balance - $%s", models.FormatPrice(s.Balance))
}

// CheckoutService prices the cart against the account balance and submits
// purchases
type CheckoutService struct {
	backend  Backend
	carts    *CartService
	sessions *SessionService
	couponID int
	logger   *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(backend Backend, carts *CartService, sessions *SessionService, couponID int, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		backend:  backend,
		carts:    carts,
		sessions: sessions,
		couponID: couponID,
		logger:   logger,
	}
}

// Summary fetches the balance of the signed in user and totals items.
func (s *CheckoutService) Summary(ctx context.Context, session models.UserSession, items []models.CartItem) (*CheckoutSummary, error) {
	if !session.LoggedIn {
		return nil, models.ErrNotLoggedIn
	}
	balance, err := s.backend.GetUserAccountBalance(ctx, session.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	total := models.CartTotal(items)
	return &CheckoutSummary{
		Items:       items,
		Total:       total,
		Balance:     balance,
		CanPurchase: balance >= total,
	}, nil
}

// Purchase buys every ticket in the cart. On success the cart is emptied
// and a flash message queued; on failure the cart is left untouched.
func (s *CheckoutService) Purchase(w http.ResponseWriter, r *http.Request, session models.UserSession) (*CheckoutSummary, error) {
	if !session.LoggedIn || session.UserID == nil {
		return nil, models.ErrNotLoggedIn
	}

	items, err := s.carts.Items(w, r)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}

	summary, err := s.Summary(r.Context(), session, items)
	if err != nil {
		return nil, err
	}
	if !summary.CanPurchase {
		return summary, models.ErrInsufficientBalance
	}

	req := &models.PurchaseRequest{
		UserID:   *session.UserID,
		CouponID: s.couponID,
		Tickets:  models.ItemizeCart(items),
	}
	if err := s.backend.PurchaseTickets(r.Context(), req); err != nil {
		s.logger.WithError(err).WithField("user", session.Email).Error("Ticket purchase failed")
		return summary, fmt.Errorf("purchase failed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user":    session.Email,
		"tickets": len(req.Tickets),
		"total":   summary.Total,
	}).Info("Tickets purchased")

	if err := s.carts.Clear(w, r); err != nil {
		s.logger.WithError(err).Error("Failed to clear cart after purchase")
	}
	if err := s.sessions.AddFlash(w, r, "Checkout successful!"); err != nil {
		s.logger.WithError(err).Warn("Failed to queue checkout flash")
	}
	return summary, nil
}
