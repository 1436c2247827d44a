package services

import (
	"fmt"
	"net/http"

	"concertfever-storefront/internal/models"
)

const sessionCartKey = "cart"

// SessionCartStorage keeps the cart inside the signed session cookie
type SessionCartStorage struct {
	sessions *SessionService
}

// NewSessionCartStorage creates a session-backed cart storage
func NewSessionCartStorage(sessions *SessionService) *SessionCartStorage {
	return &SessionCartStorage{sessions: sessions}
}

func (s *SessionCartStorage) Load(r *http.Request) ([]models.CartItem, error) {
	raw, _ := s.sessions.Value(r, sessionCartKey)
	return decodeCart(raw)
}

func (s *SessionCartStorage) Save(w http.ResponseWriter, r *http.Request, items []models.CartItem) error {
	raw, err := encodeCart(items)
	if err != nil {
		return err
	}
	if err := s.sessions.SetValue(w, r, sessionCartKey, raw); err != nil {
		return fmt.Errorf("failed to save cart to session: %w", err)
	}
	return nil
}

func (s *SessionCartStorage) Clear(w http.ResponseWriter, r *http.Request) error {
	if err := s.sessions.DeleteValue(w, r, sessionCartKey); err != nil {
		return fmt.Errorf("failed to clear cart from session: %w", err)
	}
	return nil
}
