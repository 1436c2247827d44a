package pages

import (
	"net/url"
	"strconv"

	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/components"
)

// HomeData feeds the landing page
type HomeData struct {
	Featured []*models.Event
	Error    string
}

// EventsData feeds the listing page
type EventsData struct {
	Category string
	Query    string
	Page     services.EventPage
	Error    string
}

// EventDetailsData feeds the event page. Error replaces the whole body.
type EventDetailsData struct {
	Event   *models.Event
	Pricing components.PricingState
	Error   string
}

// CartData feeds the cart page
type CartData struct {
	Items    []models.CartItem
	Total    float64
	LoggedIn bool
	Error    string
}

// CheckoutData feeds the checkout page. Summary is nil when the balance
// could not be fetched.
type CheckoutData struct {
	Summary *services.CheckoutSummary
	Items   []models.CartItem
	Error   string
}

// Lines are the cart lines shown above the total.
func (d CheckoutData) Lines() []models.CartItem {
	if d.Summary != nil {
		return d.Summary.Items
	}
	return d.Items
}

// TicketsData feeds the my-tickets page
type TicketsData struct {
	Groups    []models.TicketGroup
	QRCodeURL func(*models.Ticket) string
	Message   string
	Error     string
}

// SignInData feeds the sign in form
type SignInData struct {
	Form   models.SignInForm
	Errors map[string]string
	Error  string
}

// SignUpData feeds the registration form
type SignUpData struct {
	Form   models.SignUpForm
	Errors map[string]string
	Error  string
}

// ForgotPasswordData feeds the password reset form
type ForgotPasswordData struct {
	Form    models.ForgotPasswordForm
	Errors  map[string]string
	Error   string
	Success string
}

// ProfileData feeds the profile page. The two forms report independently.
type ProfileData struct {
	Balance      float64
	BalanceError string

	TopUpAmount  string
	TopUpErrors  map[string]string
	TopUpSuccess string
	TopUpError   string

	PasswordErrors  map[string]string
	PasswordSuccess string
	PasswordError   string
}

func categoryURL(category string) string {
	return "/events?category=" + url.QueryEscape(category)
}

func lineSummary(item models.CartItem) string {
	return item.EventName + " (" + item.TicketCategory + ") x " + strconv.Itoa(item.Quantity)
}
