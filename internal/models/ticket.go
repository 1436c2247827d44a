package models

import (
	"fmt"
	"net/url"
	"strings"
)

// QRPayloadPrefix starts every ticket QR payload.
const QRPayloadPrefix = "cfvr"

// Ticket is a purchased ticket as returned by the backend.
type Ticket struct {
	TicketID       int     `json:"ticketId"`
	EventID        int     `json:"eventEventId"`
	EventName      string  `json:"eventEventName"`
	VenueName      string  `json:"eventVenueVenueName"`
	VenueCountry   string  `json:"eventVenueCountry"`
	EventStartDate string  `json:"eventStartDate,omitempty"`
	EventEndDate   string  `json:"eventEndDate,omitempty"`
	UserID         int     `json:"userUserId"`
	UserEmail      string  `json:"userEmail,omitempty"`
	TicketCategory string  `json:"ticketCategory"`
	FinalPrice     float64 `json:"finalPrice"`
	PurchaseDate   string  `json:"purchaseDate"`
}

// QRPayload is the string encoded in the ticket's QR code: the prefix
// followed by user id, ticket id and event id.
func (t *Ticket) QRPayload() string {
	return fmt.Sprintf("%s%d%d%d", QRPayloadPrefix, t.UserID, t.TicketID, t.EventID)
}

// QRCodeURL builds the image URL of the external QR renderer for payload.
func QRCodeURL(serviceURL, payload string) string {
	sep := "?"
	if strings.Contains(serviceURL, "?") {
		sep = "&"
	}
	return serviceURL + sep + "size=150x150&data=" + url.QueryEscape(payload)
}

// TicketGroup holds the tickets of one event, in server response order.
type TicketGroup struct {
	EventName string
	Tickets   []*Ticket
}

// GroupTicketsByEvent groups tickets by event name. Groups appear in the
// order their first ticket appears.
func GroupTicketsByEvent(tickets []*Ticket) []TicketGroup {
	var groups []TicketGroup
	index := make(map[string]int)
	for _, t := range tickets {
		i, ok := index[t.EventName]
		if !ok {
			i = len(groups)
			index[t.EventName] = i
			groups = append(groups, TicketGroup{EventName: t.EventName})
		}
		groups[i].Tickets = append(groups[i].Tickets, t)
	}
	return groups
}

// ItemizedTicket is one unit of a cart line item, sent at checkout.
type ItemizedTicket struct {
	EventID        int     `json:"eventId"`
	TicketCategory string  `json:"ticketCategory"`
	FinalPrice     float64 `json:"finalPrice"`
	TicketIndex    int     `json:"ticketIndex"`
}

// PurchaseRequest is the body of POST /ticket/purchasetickets.
type PurchaseRequest struct {
	UserID   int              `json:"userId"`
	CouponID int              `json:"couponId"`
	Tickets  []ItemizedTicket `json:"tickets"`
}
