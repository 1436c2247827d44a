package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedEvent() *Event {
	return &Event{
		EventID:   3,
		EventName: "Summer Fest",
		TicketCategories: []TicketCategory{
			{Category: "A", Price: 49.99},
			{Category: "B", Price: 19.5},
			{Category: "C", Price: 5},
		},
	}
}

func TestNewTicketSelection_PricesRowsAndTotal(t *testing.T) {
	selection := NewTicketSelection(pricedEvent(), map[string]int{"A": 3, "C": 2})

	require.Len(t, selection.Rows, 3)
	assert.Equal(t, 149.97, selection.Rows[0].FinalPrice)
	assert.Equal(t, 0, selection.Rows[1].Quantity)
	assert.Equal(t, 0.0, selection.Rows[1].FinalPrice)
	assert.Equal(t, 10.0, selection.Rows[2].FinalPrice)
	assert.Equal(t, 159.97, selection.Total)
	assert.True(t, selection.HasQuantity())
}

func TestTicketSelection_CartItemsOnlyPositiveQuantities(t *testing.T) {
	selection := NewTicketSelection(pricedEvent(), map[string]int{"B": 2})

	items := selection.CartItems()

	require.Len(t, items, 1)
	assert.Equal(t, CartItem{
		EventID:        3,
		EventName:      "Summer Fest",
		TicketCategory: "B",
		Quantity:       2,
		FinalPrice:     39,
	}, items[0])
}

func TestTicketSelection_DefaultsToZero(t *testing.T) {
	selection := NewTicketSelection(pricedEvent(), nil)

	assert.False(t, selection.HasQuantity())
	assert.Empty(t, selection.CartItems())
	assert.Equal(t, 0.0, selection.Total)
}
