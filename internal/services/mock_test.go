package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertfever-storefront/internal/models"
)

func TestMockBackend_SeedCatalogue(t *testing.T) {
	backend := NewMockBackend()
	ctx := context.Background()

	events, err := backend.GetAllEvents(ctx)
	require.NoError(t, err)
	assert.Greater(t, len(events), EventsPageSize)

	for _, category := range models.Categories {
		byCategory, err := backend.GetEventsByCategory(ctx, category)
		require.NoError(t, err)
		assert.NotEmpty(t, byCategory, category)
	}

	_, err = backend.GetEventByID(ctx, 9999)
	assert.True(t, IsNotFound(err))
}

func TestMockBackend_PurchaseFlow(t *testing.T) {
	backend := NewMockBackend()
	ctx := context.Background()
	user := backend.AddUser("Ada", "Lovelace", "ada@example.com", "secret", 100)

	ok, err := backend.CheckUserPassword(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	err = backend.PurchaseTickets(ctx, &models.PurchaseRequest{
		UserID:   user.UserID,
		CouponID: 1,
		Tickets: models.ItemizeCart([]models.CartItem{
			{EventID: 2, TicketCategory: "B", Quantity: 1, FinalPrice: 60},
			{EventID: 5, TicketCategory: "A", Quantity: 1, FinalPrice: 22},
		}),
	})
	require.NoError(t, err)

	balance, err := backend.GetUserAccountBalance(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 18.0, balance)

	tickets, err := backend.GetUserTickets(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, user.UserID, tickets[0].UserID)
	assert.Equal(t, 2, tickets[0].EventID)

	err = backend.PurchaseTickets(ctx, &models.PurchaseRequest{
		UserID:  user.UserID,
		Tickets: []models.ItemizedTicket{{EventID: 1, TicketCategory: "A", FinalPrice: 180, TicketIndex: 1}},
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestMockBackend_FailOn(t *testing.T) {
	backend := NewMockBackend()
	boom := errors.New("boom")

	backend.FailOn("GetAllEvents", boom)
	_, err := backend.GetAllEvents(context.Background())
	assert.ErrorIs(t, err, boom)

	backend.FailOn("GetAllEvents", nil)
	_, err = backend.GetAllEvents(context.Background())
	assert.NoError(t, err)
}

func TestMockBackend_PasswordLifecycle(t *testing.T) {
	backend := NewMockBackend()
	ctx := context.Background()
	backend.AddUser("Ada", "Lovelace", "ada@example.com", "secret", 0)

	ok, err := backend.CheckUserPassword(ctx, "ADA@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	err = backend.ChangeUserPassword(ctx, &models.ChangePasswordRequest{
		Email: "ada@example.com", CurrentPassword: "wrong", NewPassword: "next",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	require.NoError(t, backend.ChangeUserPassword(ctx, &models.ChangePasswordRequest{
		Email: "ada@example.com", CurrentPassword: "secret", NewPassword: "next",
	}))
	ok, err = backend.CheckUserPassword(ctx, "ada@example.com", "next")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, backend.ForgotPassword(ctx, "ada@example.com"))
	ok, err = backend.CheckUserPassword(ctx, "ada@example.com", MockTemporaryPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = backend.CheckUserPassword(ctx, "nobody@example.com", "x")
	assert.True(t, IsNotFound(err))
}
