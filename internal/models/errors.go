package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownCategory     = errors.New("unknown event category")
	ErrCorruptCart         = errors.New("stored cart is malformed")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCartTooLarge        = errors.New("cart is too large to store")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
