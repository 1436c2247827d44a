package services

import (
	"context"
	"fmt"

	"concertfever-storefront/internal/models"
)

// UserService manages the account of the signed in user
type UserService struct {
	backend Backend
}

// NewUserService creates a new user service
func NewUserService(backend Backend) *UserService {
	return &UserService{backend: backend}
}

// Balance returns the account balance of email.
func (s *UserService) Balance(ctx context.Context, email string) (float64, error) {
	balance, err := s.backend.GetUserAccountBalance(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return balance, nil
}

// TopUp adds amount to the balance and returns the new balance.
func (s *UserService) TopUp(ctx context.Context, email string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: top-up must be positive", models.ErrInvalidInput)
	}
	if err := s.backend.TopUpAccountBalance(ctx, email, amount); err != nil {
		return 0, fmt.Errorf("failed to top up balance: %w", err)
	}
	return s.Balance(ctx, email)
}

// ChangePassword replaces the password of email.
func (s *UserService) ChangePassword(ctx context.Context, email string, form models.ChangePasswordForm) error {
	req := &models.ChangePasswordRequest{
		Email:           email,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	}
	if err := s.backend.ChangeUserPassword(ctx, req); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
