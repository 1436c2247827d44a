package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"concertfever-storefront/internal/middleware"
	"concertfever-storefront/internal/models"
	"concertfever-storefront/internal/services"
	"concertfever-storefront/web/templates/pages"
)

// AuthHandler handles sign in, sign up, password reset and logout
type AuthHandler struct {
	*Renderer
	auth  *services.AuthService
	carts *services.CartService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(renderer *Renderer, auth *services.AuthService, carts *services.CartService) *AuthHandler {
	return &AuthHandler{
		Renderer: renderer,
		auth:     auth,
		carts:    carts,
	}
}

// SignInPage renders the sign in form
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSessionFromContext(r.Context()).LoggedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Render(w, r, http.StatusOK, pages.SignInPage(h.Meta(w, r, "Sign in"), pages.SignInData{}))
}

// SignIn checks the credentials with the backend and signs the browser in.
// Bad credentials answer 401 so the login rate limiter can count them.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	form := models.SignInForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	data := pages.SignInData{Form: form}

	if errs := form.Validate(); len(errs) > 0 {
		data.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, pages.SignInPage(h.Meta(w, r, "Sign in"), data))
		return
	}

	user, err := h.auth.SignIn(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidPassword) {
			data.Error = "Invalid password."
		} else {
			data.Error = "Invalid user account"
		}
		h.logger.WithError(err).WithField("email", form.Email).Warn("Sign in failed")
		h.Render(w, r, http.StatusUnauthorized, pages.SignInPage(h.Meta(w, r, "Sign in"), data))
		return
	}

	if !h.signIn(w, r, user) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignUpPage renders the registration form
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSessionFromContext(r.Context()).LoggedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Render(w, r, http.StatusOK, pages.SignUpPage(h.Meta(w, r, "Sign up"), pages.SignUpData{}))
}

// SignUp creates the account and signs the new user in
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	form := models.SignUpForm{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  r.FormValue("password"),
	}
	data := pages.SignUpData{Form: form}

	if errs := form.Validate(); len(errs) > 0 {
		data.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, pages.SignUpPage(h.Meta(w, r, "Sign up"), data))
		return
	}

	user, err := h.auth.SignUp(r.Context(), form)
	if err != nil {
		h.logger.WithError(err).WithField("email", form.Email).Error("Sign up failed")
		data.Error = "Error creating account. Please try again."
		h.Render(w, r, http.StatusBadRequest, pages.SignUpPage(h.Meta(w, r, "Sign up"), data))
		return
	}

	if !h.signIn(w, r, user) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ForgotPasswordPage renders the password reset form
func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, pages.ForgotPasswordPage(h.Meta(w, r, "Forgot password"), pages.ForgotPasswordData{}))
}

// ForgotPassword asks the backend to mail a temporary password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	form := models.ForgotPasswordForm{Email: strings.TrimSpace(r.FormValue("email"))}
	data := pages.ForgotPasswordData{Form: form}

	if errs := form.Validate(); len(errs) > 0 {
		data.Errors = errs
		h.Render(w, r, http.StatusUnprocessableEntity, pages.ForgotPasswordPage(h.Meta(w, r, "Forgot password"), data))
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), form.Email); err != nil {
		h.logger.WithError(err).WithField("email", form.Email).Error("Password reset failed")
		data.Error = "Error resetting password. Please try again."
		h.Render(w, r, http.StatusInternalServerError, pages.ForgotPasswordPage(h.Meta(w, r, "Forgot password"), data))
		return
	}

	data.Success = "Password reset successfully. Please check your email for a temporary password."
	h.Render(w, r, http.StatusOK, pages.ForgotPasswordPage(h.Meta(w, r, "Forgot password"), data))
}

// Logout resets the session to anonymous and empties the cart
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())

	if err := h.sessions.Reset(w, r); err != nil {
		h.logger.WithError(err).Error("Failed to reset session")
	}
	if err := h.carts.Clear(w, r); err != nil {
		h.logger.WithError(err).Error("Failed to clear cart on logout")
	}

	h.logger.WithField("user", session.Email).Info("User logged out")
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if _, err := h.sessions.Update(w, r, models.SignedInPatch(user)); err != nil {
		h.logger.WithError(err).WithField("email", user.Email).Error("Failed to save session")
		http.Error(w, "Failed to sign in. Please try again.", http.StatusInternalServerError)
		return false
	}
	h.logger.WithFields(logrus.Fields{
		"user_id": user.UserID,
		"email":   user.Email,
	}).Info("User signed in")
	return true
}
