package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/components"
	"concertfever-storefront/web/templates/pages"
)

// PublicHandler handles the catalogue pages
type PublicHandler struct {
	*Renderer
	events *services.EventService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(renderer *Renderer, events *services.EventService) *PublicHandler {
	return &PublicHandler{
		Renderer: renderer,
		events:   events,
	}
}

// HomePage renders the landing page with a random window of events
func (h *PublicHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{}

	featured, err := h.events.FeaturedWindow(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load featured events")
		data.Error = "Failed to load events."
	}
	data.Featured = featured

	h.Render(w, r, http.StatusOK, pages.HomePage(h.Meta(w, r, "Home"), data))
}

// EventsPage renders the filtered, paginated event listing
func (h *PublicHandler) EventsPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data := pages.EventsData{
		Category: query.Get("category"),
		Query:    query.Get("q"),
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			page = p
		}
	}

	events, err := h.events.ListEvents(r.Context(), data.Category)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrUnknownCategory) {
			status = http.StatusBadRequest
			data.Error = "Unknown event category."
		} else {
			h.logger.WithError(err).WithField("category", data.Category).Error("Failed to list events")
			data.Error = "Failed to load events."
		}
		h.Render(w, r, status, pages.EventsPage(h.Meta(w, r, "Events"), data))
		return
	}

	filtered := services.FilterEventsByName(events, data.Query)
	data.Page = services.Paginate(filtered, page, services.EventsPageSize)

	h.Render(w, r, http.StatusOK, pages.EventsPage(h.Meta(w, r, "Events"), data))
}

// EventDetailsPage renders one event with an empty pricing table
func (h *PublicHandler) EventDetailsPage(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	data := pages.EventDetailsData{
		Event: event,
		Pricing: components.PricingState{
			Selection: models.NewTicketSelection(event, nil),
			LoggedIn:  session.LoggedIn,
		},
	}
	h.Render(w, r, http.StatusOK, pages.EventDetailsPage(h.Meta(w, r, event.EventName), data))
}

// UpdatePricing re-prices the table with the posted quantities. HTMX
// requests get the table alone.
func (h *PublicHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	state := parsePricingForm(r, event)
	state.LoggedIn = session.LoggedIn

	status := http.StatusOK
	if len(state.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	renderPricing(h.Renderer, w, r, status, event, state)
}

// NotFound renders the 404 page
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusNotFound, pages.NotFoundPage(h.Meta(w, r, "Page not found")))
}

// loadEvent resolves the {eventId} URL parameter. It writes the response
// itself and returns false when there is no event to show.
func (h *PublicHandler) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	return loadEvent(h.Renderer, h.events, w, r)
}

func loadEvent(rd *Renderer, events *services.EventService, w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventId"))
	if err != nil {
		rd.Render(w, r, http.StatusNotFound, pages.NotFoundPage(rd.Meta(w, r, "Page not found")))
		return nil, false
	}

	event, err := events.GetEvent(r.Context(), eventID)
	if err != nil {
		data := pages.EventDetailsData{Error: "No event found."}
		status := http.StatusNotFound
		if !errors.Is(err, models.ErrEventNotFound) {
			rd.logger.WithError(err).WithField("event_id", eventID).Error("Failed to load event")
			data.Error = "Failed to load event."
			status = http.StatusInternalServerError
		}
		rd.Render(w, r, status, pages.EventDetailsPage(rd.Meta(w, r, "Event"), data))
		return nil, false
	}
	return event, true
}

// parsePricingForm reads one quantity input per ticket category. Invalid
// inputs are reported per field and priced as 0.
func parsePricingForm(r *http.Request, event *models.Event) components.PricingState {
	state := components.PricingState{
		Errors: make(map[string]string),
		Raw:    make(map[string]string),
	}
	quantities := make(map[string]int)

	for _, tc := range event.TicketCategories {
		field := components.QuantityField(tc.Category)
		raw := r.FormValue(field)
		qty, err := models.ParseTicketQuantity(raw)
		if err != nil {
			state.Errors[field] = "Quantity must be a number between 0 and 99."
			state.Raw[field] = raw
			continue
		}
		quantities[tc.Category] = qty
	}

	state.Selection = models.NewTicketSelection(event, quantities)
	return state
}

func renderPricing(rd *Renderer, w http.ResponseWriter, r *http.Request, status int, event *models.Event, state components.PricingState) {
	if middleware.IsHTMXRequest(r) {
		// htmx only swaps 2xx responses
		rd.Render(w, r, http.StatusOK, components.PricingTable(state))
		return
	}
	data := pages.EventDetailsData{Event: event, Pricing: state}
	rd.Render(w, r, status, pages.EventDetailsPage(rd.Meta(w, r, event.EventName), data))
}
