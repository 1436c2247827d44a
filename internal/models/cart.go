package models

// CartItem is one line of the shopping cart: a quantity of tickets of one
// category for one event. FinalPrice is the line total (price x quantity).
type CartItem struct {
	EventID        int     `json:"eventId"`
	EventName      string  `json:"eventName"`
	TicketCategory string  `json:"ticketCategory"`
	Quantity       int     `json:"quantity"`
	FinalPrice     float64 `json:"finalPrice"`
}

// SameLine reports whether two items share the (event, category) key.
func (c CartItem) SameLine(other CartItem) bool {
	return c.EventID == other.EventID && c.TicketCategory == other.TicketCategory
}

// MergeCartItems appends the candidates that are not already in the cart.
// Candidates with a non-positive quantity are ignored, and a candidate whose
// (event, category) is already present is dropped: the first write wins.
func MergeCartItems(existing, candidates []CartItem) []CartItem {
	merged := make([]CartItem, 0, len(existing)+len(candidates))
	merged = append(merged, existing...)
	for _, candidate := range candidates {
		if candidate.Quantity <= 0 {
			continue
		}
		duplicate := false
		for _, item := range merged {
			if item.SameLine(candidate) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, candidate)
		}
	}
	return merged
}

// RemoveCartItem returns a copy of items without the item at index.
func RemoveCartItem(items []CartItem, index int) ([]CartItem, error) {
	if index < 0 || index >= len(items) {
		return nil, ErrCartItemNotFound
	}
	updated := make([]CartItem, 0, len(items)-1)
	updated = append(updated, items[:index]...)
	updated = append(updated, items[index+1:]...)
	return updated, nil
}

// CartTotal sums the line totals, rounded to 2 decimals.
func CartTotal(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.FinalPrice
	}
	return RoundPrice(total)
}

// ItemizeCart expands every line into one ticket per unit of quantity.
// TicketIndex is 1-based within its line. Each unit carries its share of the
// line total; the last unit absorbs the rounding remainder so the units
// always add up to the line.
func ItemizeCart(items []CartItem) []ItemizedTicket {
	var tickets []ItemizedTicket
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		unit := RoundPrice(item.FinalPrice / float64(item.Quantity))
		for i := 1; i <= item.Quantity; i++ {
			price := unit
			if i == item.Quantity {
				price = RoundPrice(item.FinalPrice - unit*float64(item.Quantity-1))
			}
			tickets = append(tickets, ItemizedTicket{
				EventID:        item.EventID,
				TicketCategory: item.TicketCategory,
				FinalPrice:     price,
				TicketIndex:    i,
			})
		}
	}
	return tickets
}
