package models

import (
	"fmt"
	"math"
	"strings"
)

// Venue is where an event takes place
type Venue struct {
	VenueID   int    `json:"venueId,omitempty"`
	VenueName string `json:"venueName"`
	Country   string `json:"country"`
	City      string `json:"city,omitempty"`
	Address   string `json:"address"`
	PinCode   string `json:"pinCode"`
}

// TicketCategory is one priced tier of an event (A, B, C...)
type TicketCategory struct {
	Category          string  `json:"ticketCategoryIdTicketCategory"`
	Price             float64 `json:"price"`
	TotalQuantity     int     `json:"totalQuantity,omitempty"`
	RemainingQuantity int     `json:"remainingQuantity,omitempty"`
}

// Event is the full event record served by the backend. It is read-only to
// the storefront.
type Event struct {
	EventID          int              `json:"eventId"`
	EventName        string           `json:"eventName"`
	Description      string           `json:"description"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	Category         string           `json:"category,omitempty"`
	Venue            Venue            `json:"venue"`
	TicketCategories []TicketCategory `json:"ticketCategoryDto"`
}

// LowestPrice returns the cheapest ticket category price and whether the
// event has any ticket categories at all.
func (e *Event) LowestPrice() (float64, bool) {
	if len(e.TicketCategories) == 0 {
		return 0, false
	}
	lowest := math.Inf(1)
	for _, tc := range e.TicketCategories {
		if tc.Price < lowest {
			lowest = tc.Price
		}
	}
	return lowest, true
}

// LowestPriceLabel formats LowestPrice for event cards ("N/A" when there is
// nothing to sell).
func (e *Event) LowestPriceLabel() string {
	price, ok := e.LowestPrice()
	if !ok {
		return "N/A"
	}
	return FormatPrice(price)
}

// FindTicketCategory looks a category up by its code.
func (e *Event) FindTicketCategory(code string) (TicketCategory, bool) {
	for _, tc := range e.TicketCategories {
		if strings.EqualFold(tc.Category, code) {
			return tc, true
		}
	}
	return TicketCategory{}, false
}

// ImagePath is where the static event artwork lives.
func (e *Event) ImagePath() string {
	return fmt.Sprintf("/assets/events/%d.jpeg", e.EventID)
}

// RoundPrice rounds an amount to 2 decimal places.
func RoundPrice(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatPrice renders an amount with 2 decimals and no currency sign.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f", RoundPrice(amount))
}
