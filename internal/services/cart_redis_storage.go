package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"concertfever-storefront/internal/models"
)

// RedisCartTTL is how long an untouched cart survives in redis
const RedisCartTTL = 24 * time.Hour

// RedisCartStorage keeps carts server-side, keyed by a per-browser id held
// in the session.
type RedisCartStorage struct {
	client   redis.UniversalClient
	sessions *SessionService
	ttl      time.Duration
}

// NewRedisCartStorage creates a redis-backed cart storage
func NewRedisCartStorage(client redis.UniversalClient, sessions *SessionService) *RedisCartStorage {
	return &RedisCartStorage{
		client:   client,
		sessions: sessions,
		ttl:      RedisCartTTL,
	}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:session:%s", cartID)
}

func (s *RedisCartStorage) Load(r *http.Request) ([]models.CartItem, error) {
	cartID, ok := s.sessions.CartID(r)
	if !ok {
		return []models.CartItem{}, nil
	}
	raw, err := s.client.Get(r.Context(), cartKey(cartID)).Result()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return decodeCart(raw)
}

// Save writes the cart and refreshes its TTL.
func (s *RedisCartStorage) Save(w http.ResponseWriter, r *http.Request, items []models.CartItem) error {
	cartID, err := s.sessions.EnsureCartID(w, r)
	if err != nil {
		return err
	}
	raw, err := encodeCart(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(r.Context(), cartKey(cartID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (s *RedisCartStorage) Clear(w http.ResponseWriter, r *http.Request) error {
	cartID, ok := s.sessions.CartID(r)
	if !ok {
		return nil
	}
	if err := s.client.Del(r.Context(), cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
