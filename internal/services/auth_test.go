package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/models"
)

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	user := &models.User{UserID: 7, FirstName: "Ada", Email: "ada@example.com"}

	t.Run("valid credentials", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("CheckUserPassword", ctx, "ada@example.com", "secret").Return(true, nil)
		backend.On("GetUserByEmail", ctx, "ada@example.com").Return(user, nil)
		backend.On("UpdateUserLoginTime", ctx, "ada@example.com").Return(nil)
		service := NewAuthService(backend, 1000, logging.Discard())

		got, err := service.SignIn(ctx, "ada@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, user, got)
		backend.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("CheckUserPassword", ctx, "ada@example.com", "nope").Return(false, nil)
		service := NewAuthService(backend, 1000, logging.Discard())

		_, err := service.SignIn(ctx, "ada@example.com", "nope")

		assert.ErrorIs(t, err, models.ErrInvalidPassword)
		backend.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("unknown account", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("CheckUserPassword", ctx, "who@example.com", "x").Return(false, &APIError{StatusCode: 404})
		service := NewAuthService(backend, 1000, logging.Discard())

		_, err := service.SignIn(ctx, "who@example.com", "x")

		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("login time failure is not fatal", func(t *testing.T) {
		backend := new(mockBackend)
		backend.On("CheckUserPassword", ctx, "ada@example.com", "secret").Return(true, nil)
		backend.On("GetUserByEmail", ctx, "ada@example.com").Return(user, nil)
		backend.On("UpdateUserLoginTime", ctx, "ada@example.com").Return(errors.New("timeout"))
		service := NewAuthService(backend, 1000, logging.Discard())

		got, err := service.SignIn(ctx, "ada@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, 7, got.UserID)
	})
}

func TestAuthService_SignUpUsesConfiguredBalance(t *testing.T) {
	ctx := context.Background()
	backend := new(mockBackend)
	backend.On("CreateNewUser", ctx, &models.NewUserRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw", AccountBalance: 250,
	}).Return(nil)
	backend.On("GetUserByEmail", ctx, "ada@example.com").Return(&models.User{UserID: 3, Email: "ada@example.com"}, nil)
	service := NewAuthService(backend, 250, logging.Discard())

	user, err := service.SignUp(ctx, models.SignUpForm{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, 3, user.UserID)
	backend.AssertExpectations(t)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctx := context.Background()
	backend := new(mockBackend)
	backend.On("ForgotPassword", ctx, "ada@example.com").Return(nil)
	backend.On("ForgotPassword", ctx, "bad@example.com").Return(&APIError{StatusCode: 500})
	service := NewAuthService(backend, 1000, logging.Discard())

	assert.NoError(t, service.ForgotPassword(ctx, "ada@example.com"))
	assert.Error(t, service.ForgotPassword(ctx, "bad@example.com"))
}
