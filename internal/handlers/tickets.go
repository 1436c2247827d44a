package handlers

import (
	"net/http"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/pages"
)

// TicketHandler handles the purchased tickets page
type TicketHandler struct {
	*Renderer
	tickets *services.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(renderer *Renderer, tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{Renderer: renderer, tickets: tickets}
}

// MyTickets lists the tickets of the signed in user grouped by event
func (h *TicketHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	data := pages.TicketsData{QRCodeURL: h.tickets.QRCodeURL}

	groups, err := h.tickets.MyTickets(r.Context(), session.Email)
	if err != nil {
		h.logger.WithError(err).WithField("user", session.Email).Error("Failed to load tickets")
		data.Error = "Failed to load tickets."
		h.Render(w, r, http.StatusInternalServerError, pages.MyTicketsPage(h.Meta(w, r, "My tickets"), data))
		return
	}

	if len(groups) == 0 {
		data.Message = "No tickets found."
	}
	data.Groups = groups
	h.Render(w, r, http.StatusOK, pages.MyTicketsPage(h.Meta(w, r, "My tickets"), data))
}
