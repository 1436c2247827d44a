package handlers

import (
	"net/http"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/pages"
)

// ProfileHandler handles the account page
type ProfileHandler struct {
	*Renderer
	users *services.UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(renderer *Renderer, users *services.UserService) *ProfileHandler {
	return &ProfileHandler{Renderer: renderer, users: users}
}

// ProfilePage shows the account with its balance
func (h *ProfileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	data := pages.ProfileData{}
	h.loadBalance(r, &data)
	h.Render(w, r, http.StatusOK, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
}

// TopUp adds the posted amount to the balance
func (h *ProfileHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	form := models.TopUpForm{Amount: r.FormValue("top_up")}
	data := pages.ProfileData{TopUpAmount: form.Amount}

	amount, errs := form.Parse()
	if len(errs) > 0 {
		data.TopUpErrors = errs
		h.loadBalance(r, &data)
		h.Render(w, r, http.StatusUnprocessableEntity, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
		return
	}

	balance, err := h.users.TopUp(r.Context(), session.Email, amount)
	if err != nil {
		h.logger.WithError(err).WithField("user", session.Email).Error("Top up failed")
		data.TopUpError = "Failed to top up balance."
		h.loadBalance(r, &data)
		h.Render(w, r, http.StatusInternalServerError, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
		return
	}

	h.logger.WithField("user", session.Email).WithField("amount", amount).Info("Balance topped up")
	data.TopUpAmount = ""
	data.Balance = balance
	data.TopUpSuccess = "Balance topped up successfully."
	h.Render(w, r, http.StatusOK, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
}

// ChangePassword replaces the account password
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	form := models.ChangePasswordForm{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
	}
	data := pages.ProfileData{}
	h.loadBalance(r, &data)

	if errs := form.Validate(); len(errs) > 0 {
		data.PasswordErrors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
		return
	}

	if err := h.users.ChangePassword(r.Context(), session.Email, form); err != nil {
		h.logger.WithError(err).WithField("user", session.Email).Warn("Password change failed")
		data.PasswordError = "Failed to update password."
		h.Render(w, r, http.StatusBadRequest, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
		return
	}

	data.PasswordSuccess = "Password updated successfully."
	h.Render(w, r, http.StatusOK, pages.ProfilePage(h.Meta(w, r, "My profile"), data))
}

func (h *ProfileHandler) loadBalance(r *http.Request, data *pages.ProfileData) {
	session := middleware.GetSessionFromContext(r.Context())
	balance, err := h.users.Balance(r.Context(), session.Email)
	if err != nil {
		h.logger.WithError(err).WithField("user", session.Email).Error("Failed to fetch balance")
		data.BalanceError = "Failed to fetch user balance."
		return
	}
	data.Balance = balance
}
