package services

import (
	"context"
	"fmt"

	"concertfever-storefront/internal/models"
)

// TicketService loads the purchased tickets of a user
type TicketService struct {
	backend      Backend
	qrServiceURL string
}

// NewTicketService creates a new ticket service
func NewTicketService(backend Backend, qrServiceURL string) *TicketService {
	return &TicketService{backend: backend, qrServiceURL: qrServiceURL}
}

// MyTickets returns the tickets of email grouped by event, in response order.
func (s *TicketService) MyTickets(ctx context.Context, email string) ([]models.TicketGroup, error) {
	tickets, err := s.backend.GetUserTickets(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	return models.GroupTicketsByEvent(tickets), nil
}

// QRCodeURL is the image URL of the QR code for ticket.
func (s *TicketService) QRCodeURL(ticket *models.Ticket) string {
	return models.QRCodeURL(s.qrServiceURL, ticket.QRPayload())
}
