package components

import (
	"fmt"
	"net/url"
	"strconv"

	"concertfever-storefront/internal/models"
)

// Alert kinds
const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
	AlertWarning = "warning"
	AlertInfo    = "info"
)

// PricingTableID is the htmx swap target of the pricing form.
const PricingTableID = "pricing-table"

// PricingState is everything the add-to-cart form renders
type PricingState struct {
	Selection models.TicketSelection
	LoggedIn  bool
	Errors    map[string]string
	// Raw holds the submitted quantity text so invalid input is echoed back.
	Raw     map[string]string
	Message string
	Error   string
}

// QuantityValue is the text of the quantity input of row: the submitted
// text when there was one, else the parsed quantity.
func (s PricingState) QuantityValue(row models.SelectionRow) string {
	if raw, ok := s.Raw[QuantityField(row.Category)]; ok {
		return raw
	}
	return strconv.Itoa(row.Quantity)
}

// QuantityField names the quantity input of a ticket category.
func QuantityField(category string) string {
	return "qty_" + category
}

// InputClass marks a form control invalid when it has an error.
func InputClass(errors map[string]string, field string) string {
	if _, ok := errors[field]; ok {
		return "form-control is-invalid"
	}
	return "form-control"
}

func fieldError(errors map[string]string, field string) string {
	return errors[field]
}

// EventURL is the details page of an event.
func EventURL(eventID int) string {
	return fmt.Sprintf("/eventdetails/%d", eventID)
}

func pricingURL(eventID int) string {
	return EventURL(eventID) + "/pricing"
}

func addToCartURL(eventID int) string {
	return EventURL(eventID) + "/cart"
}

// EventsURL builds a listing URL that keeps the category and query.
func EventsURL(category, query string, page int) string {
	values := url.Values{}
	if category != "" {
		values.Set("category", category)
	}
	if query != "" {
		values.Set("q", query)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if len(values) == 0 {
		return "/events"
	}
	return "/events?" + values.Encode()
}

// VenueLine joins a venue name and its country.
func VenueLine(name, country string) string {
	if country == "" {
		return name
	}
	return name + ", " + country
}

func priceLabel(event *models.Event) string {
	label := event.LowestPriceLabel()
	if label == "N/A" {
		return label
	}
	return "From $" + label
}
