package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)

// IsValidEmail applies the loose email check used by every form.
func IsValidEmail(email string) bool {
	return email != "" && emailRegex.MatchString(email)
}

// SignInForm is the sign in form
type SignInForm struct {
	Email    string
	Password string
}

// Validate returns field errors keyed by form field name.
func (f SignInForm) Validate() map[string]string {
	errs := make(map[string]string)
	if !IsValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email address."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

// SignUpForm is the registration form
type SignUpForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (f SignUpForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.FirstName == "" {
		errs["first_name"] = "First name is required."
	}
	if f.LastName == "" {
		errs["last_name"] = "Last name is required."
	}
	if !IsValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email address."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

// ForgotPasswordForm asks the backend to mail a temporary password
type ForgotPasswordForm struct {
	Email string
}

func (f ForgotPasswordForm) Validate() map[string]string {
	errs := make(map[string]string)
	if !IsValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email address."
	}
	return errs
}

// ChangePasswordForm is the password section of the profile page
type ChangePasswordForm struct {
	CurrentPassword string
	NewPassword     string
}

func (f ChangePasswordForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.CurrentPassword == "" {
		errs["current_password"] = "Current password is required."
	}
	if f.NewPassword == "" {
		errs["new_password"] = "New password is required."
	} else if f.CurrentPassword == f.NewPassword {
		errs["new_password"] = "New password must be different from current password."
	}
	return errs
}

// TopUpForm is the balance top-up section of the profile page
type TopUpForm struct {
	Amount string
}

// Parse validates the amount and returns it as a number.
func (f TopUpForm) Parse() (float64, map[string]string) {
	errs := make(map[string]string)
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil || amount <= 0 {
		errs["top_up"] = "Please enter a valid top-up amount."
		return 0, errs
	}
	return amount, errs
}

// ParseTicketQuantity parses one quantity input of the add-to-cart form.
// An empty input means 0.
func ParseTicketQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a number", ErrInvalidInput, raw)
	}
	if qty < MinTicketQuantity || qty > MaxTicketQuantity {
		return 0, fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, MinTicketQuantity, MaxTicketQuantity)
	}
	return qty, nil
}
