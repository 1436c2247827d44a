package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/models"
)

// AuthService signs users in and up against the backend. Passwords are
// only ever checked by the backend.
type AuthService struct {
	backend       Backend
	signupBalance float64
	logger        *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(backend Backend, signupBalance float64, logger *logrus.Logger) *AuthService {
	return &AuthService{
		backend:       backend,
		signupBalance: signupBalance,
		logger:        logger,
	}
}

// SignIn checks the credentials and returns the user record. A wrong
// password is ErrInvalidPassword; any backend failure is ErrUserNotFound.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	valid, err := s.backend.CheckUserPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUserNotFound, err)
	}
	if !valid {
		return nil, models.ErrInvalidPassword
	}

	user, err := s.backend.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUserNotFound, err)
	}

	if err := s.backend.UpdateUserLoginTime(ctx, email); err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("Failed to record login time")
	}
	return user, nil
}

// SignUp creates the account with the configured starting balance and
// returns the new user record.
func (s *AuthService) SignUp(ctx context.Context, form models.SignUpForm) (*models.User, error) {
	req := &models.NewUserRequest{
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Email:          form.Email,
		Password:       form.Password,
		AccountBalance: s.signupBalance,
	}
	if err := s.backend.CreateNewUser(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.backend.GetUserByEmail(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new user: %w", err)
	}

	s.logger.WithField("email", form.Email).Info("User registered")
	return user, nil
}

// ForgotPassword asks the backend to mail a temporary password.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.backend.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
