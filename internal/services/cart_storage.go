package services

import (
	"encoding/json"
	"fmt"

	"concertfever-storefront/internal/models"
)

// Cart storage media
const (
	CartStorageCookie  = "cookie"
	CartStorageSession = "session"
	CartStorageRedis   = "redis"
)

func encodeCart(items []models.CartItem) (string, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	return string(data), nil
}

// decodeCart parses a stored cart. An empty value is an empty cart; anything
// that is not a JSON array of items is ErrCorruptCart.
func decodeCart(raw string) ([]models.CartItem, error) {
	if raw == "" {
		return []models.CartItem{}, nil
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptCart, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}
