package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/pages"
)

// CartHandler handles the cart and checkout requests
type CartHandler struct {
	*Renderer
	events   *services.EventService
	carts    *services.CartService
	checkout *services.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(renderer *Renderer, events *services.EventService, carts *services.CartService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{
		Renderer: renderer,
		events:   events,
		carts:    carts,
		checkout: checkout,
	}
}

// AddToCart adds every ticket category with a positive quantity to the cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if !session.LoggedIn {
		h.Redirect(w, r, "/signin")
		return
	}

	event, ok := loadEvent(h.Renderer, h.events, w, r)
	if !ok {
		return
	}

	state := parsePricingForm(r, event)
	state.LoggedIn = true

	if len(state.Errors) > 0 {
		renderPricing(h.Renderer, w, r, http.StatusUnprocessableEntity, event, state)
		return
	}
	if !state.Selection.HasQuantity() {
		state.Error = "Please select at least one ticket."
		renderPricing(h.Renderer, w, r, http.StatusUnprocessableEntity, event, state)
		return
	}

	items, err := h.carts.Add(w, r, state.Selection.CartItems())
	if errors.Is(err, models.ErrCartTooLarge) {
		h.logger.WithField("event_id", event.EventID).Warn("Cart cookie limit reached")
		state.Error = "Your cart is full. Check out or remove some tickets first."
		renderPricing(h.Renderer, w, r, http.StatusUnprocessableEntity, event, state)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("event_id", event.EventID).Error("Failed to add to cart")
		state.Error = "Failed to add to cart. Please try again."
		renderPricing(h.Renderer, w, r, http.StatusInternalServerError, event, state)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"user":     session.Email,
		"lines":    len(items),
	}).Info("Tickets added to cart")

	state.Message = "Added to cart"
	renderPricing(h.Renderer, w, r, http.StatusOK, event, state)
}

// CartPage lists the cart
func (h *CartHandler) CartPage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	data := pages.CartData{LoggedIn: session.LoggedIn}

	status := http.StatusOK
	items, err := h.carts.Items(w, r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart")
		data.Error = "Failed to load cart."
		status = http.StatusInternalServerError
	}
	data.Items = items
	data.Total = models.CartTotal(items)

	h.Render(w, r, status, pages.CartPage(h.Meta(w, r, "Cart"), data))
}

// RemoveItem drops the cart line at the posted index
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, "Invalid cart item", http.StatusBadRequest)
		return
	}

	if _, err := h.carts.Remove(w, r, index); err != nil {
		if errors.Is(err, models.ErrCartItemNotFound) {
			// Already gone, e.g. removed from another tab
			h.Redirect(w, r, "/cart")
			return
		}
		h.logger.WithError(err).WithField("index", index).Error("Failed to remove cart item")
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	h.Redirect(w, r, "/cart")
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(w, r); err != nil {
		h.logger.WithError(err).Error("Failed to clear cart")
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	h.Redirect(w, r, "/cart")
}

// CheckoutPage shows the cart total against the account balance
func (h *CartHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())

	items, err := h.carts.Items(w, r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart")
		h.Render(w, r, http.StatusInternalServerError, pages.CheckoutPage(h.Meta(w, r, "Checkout"), pages.CheckoutData{Error: "Failed to load cart."}))
		return
	}

	data := pages.CheckoutData{Items: items}
	status := http.StatusOK
	if len(items) > 0 {
		summary, err := h.checkout.Summary(r.Context(), session, items)
		if err != nil {
			h.logger.WithError(err).WithField("user", session.Email).Error("Failed to fetch balance for checkout")
			data.Error = "Error fetching user balance."
			status = http.StatusInternalServerError
		}
		data.Summary = summary
	}

	h.Render(w, r, status, pages.CheckoutPage(h.Meta(w, r, "Checkout"), data))
}

// Checkout purchases the cart. On success the browser lands on the home
// page with a flash message.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())

	summary, err := h.checkout.Purchase(w, r, session)
	switch {
	case err == nil:
		h.Redirect(w, r, "/")
		return
	case errors.Is(err, models.ErrNotLoggedIn):
		h.Redirect(w, r, "/signin")
		return
	case errors.Is(err, models.ErrEmptyCart):
		h.Redirect(w, r, "/cart")
		return
	}

	data := pages.CheckoutData{Summary: summary}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInsufficientBalance):
		data.Error = "Insufficient balance."
		status = http.StatusUnprocessableEntity
	case summary == nil:
		data.Error = "Error fetching user balance."
	default:
		data.Error = "Failed to complete checkout. Please try again."
	}

	if summary == nil {
		// Show the lines even when the balance is unknown
		items, itemsErr := h.carts.Items(w, r)
		if itemsErr == nil {
			data.Items = items
		}
	}

	h.Render(w, r, status, pages.CheckoutPage(h.Meta(w, r, "Checkout"), data))
}
