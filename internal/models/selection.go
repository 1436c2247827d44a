package models

// Quantity bounds of the add-to-cart form
const (
	MinTicketQuantity = 0
	MaxTicketQuantity = 99
)

// SelectionRow is one row of the add-to-cart pricing table.
type SelectionRow struct {
	Category   string
	Price      float64
	Quantity   int
	FinalPrice float64
}

// TicketSelection is the pricing table for one event.
type TicketSelection struct {
	EventID   int
	EventName string
	Rows      []SelectionRow
	Total     float64
}

// NewTicketSelection prices the requested quantity of every ticket category
// of event. Categories missing from quantities default to 0.
func NewTicketSelection(event *Event, quantities map[string]int) TicketSelection {
	selection := TicketSelection{
		EventID:   event.EventID,
		EventName: event.EventName,
	}
	total := 0.0
	for _, tc := range event.TicketCategories {
		qty := quantities[tc.Category]
		final := tc.Price * float64(qty)
		selection.Rows = append(selection.Rows, SelectionRow{
			Category:   tc.Category,
			Price:      tc.Price,
			Quantity:   qty,
			FinalPrice: RoundPrice(final),
		})
		total += final
	}
	selection.Total = RoundPrice(total)
	return selection
}

// CartItems converts every row with a positive quantity into a cart line.
func (s TicketSelection) CartItems() []CartItem {
	var items []CartItem
	for _, row := range s.Rows {
		if row.Quantity <= 0 {
			continue
		}
		items = append(items, CartItem{
			EventID:        s.EventID,
			EventName:      s.EventName,
			TicketCategory: row.Category,
			Quantity:       row.Quantity,
			FinalPrice:     row.FinalPrice,
		})
	}
	return items
}

// HasQuantity reports whether at least one row has a positive quantity.
func (s TicketSelection) HasQuantity() bool {
	for _, row := range s.Rows {
		if row.Quantity > 0 {
			return true
		}
	}
	return false
}
