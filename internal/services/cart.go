package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// CartService reads and mutates the cart of the current browser and keeps
// the session's cart count in step with it.
type CartService struct {
	storage  CartStorage
	sessions SessionStore
	logger   *logrus.Logger
}

// NewCartService creates a new cart service
func NewCartService(storage CartStorage, sessions SessionStore, logger *logrus.Logger) *CartService {
	return &CartService{
		storage:  storage,
		sessions: sessions,
		logger:   logger,
	}
}

// Items returns the stored cart. A corrupt cart is cleared and read as empty.
func (s *CartService) Items(w http.ResponseWriter, r *http.Request) ([]models.CartItem, error) {
	items, err := s.storage.Load(r)
	if errors.Is(err, models.ErrCorruptCart) {
		s.logger.WithError(err).Warn("Discarding corrupt cart")
		if clearErr := s.storage.Clear(w, r); clearErr != nil {
			s.logger.WithError(clearErr).Error("Failed to clear corrupt cart")
		}
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// Add appends every candidate line not already in the cart and returns the
// updated cart.
func (s *CartService) Add(w http.ResponseWriter, r *http.Request, candidates []models.CartItem) ([]models.CartItem, error) {
	items, err := s.Items(w, r)
	if err != nil {
		return nil, err
	}

	updated := models.MergeCartItems(items, candidates)
	if err := s.storage.Save(w, r, updated); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	s.syncCount(w, r, len(updated))

	s.logger.WithFields(logrus.Fields{
		"added": len(updated) - len(items),
		"lines": len(updated),
	}).Debug("Cart updated")

	return updated, nil
}

// Remove drops the line at index.
func (s *CartService) Remove(w http.ResponseWriter, r *http.Request, index int) ([]models.CartItem, error) {
	items, err := s.Items(w, r)
	if err != nil {
		return nil, err
	}

	updated, err := models.RemoveCartItem(items, index)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Save(w, r, updated); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	s.syncCount(w, r, len(updated))
	return updated, nil
}

// Clear empties the cart.
func (s *CartService) Clear(w http.ResponseWriter, r *http.Request) error {
	if err := s.storage.Clear(w, r); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.syncCount(w, r, 0)
	return nil
}

// SyncCount re-derives the session's cart count from storage and returns
// the up to date session.
func (s *CartService) SyncCount(w http.ResponseWriter, r *http.Request) models.UserSession {
	session := s.sessions.Load(r)
	items, err := s.Items(w, r)
	if err != nil {
		s.logger.WithError(err).Warn("Could not read cart to refresh badge")
		return session
	}
	if session.Cart == len(items) {
		return session
	}
	updated, err := s.sessions.Update(w, r, models.CartCountPatch(len(items)))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to save cart count")
	}
	return updated
}

func (s *CartService) syncCount(w http.ResponseWriter, r *http.Request, count int) {
	if _, err := s.sessions.Update(w, r, models.CartCountPatch(count)); err != nil {
		s.logger.WithError(err).Warn("Failed to save cart count")
	}
}
