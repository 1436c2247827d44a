package models

import (
	"errors"
	"testing"
)

func TestSignInForm_Validate(t *testing.T) {
	tests := []struct {
		name     string
		form     SignInForm
		wantKeys []string
	}{
		{"valid", SignInForm{Email: "a@b.co", Password: "x"}, nil},
		{"missing email", SignInForm{Password: "x"}, []string{"email"}},
		{"bad email", SignInForm{Email: "nope", Password: "x"}, []string{"email"}},
		{"missing password", SignInForm{Email: "a@b.co"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if len(errs) != len(tt.wantKeys) {
				t.Fatalf("expected %d errors, got %v", len(tt.wantKeys), errs)
			}
			for _, key := range tt.wantKeys {
				if _, ok := errs[key]; !ok {
					t.Errorf("expected error for %q, got %v", key, errs)
				}
			}
		})
	}
}

func TestSignUpForm_Validate(t *testing.T) {
	errs := SignUpForm{}.Validate()
	for _, key := range []string{"first_name", "last_name", "email", "password"} {
		if _, ok := errs[key]; !ok {
			t.Errorf("expected error for %q", key)
		}
	}

	if errs := (SignUpForm{FirstName: "A", LastName: "B", Email: "a@b.co", Password: "p"}).Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestChangePasswordForm_Validate(t *testing.T) {
	errs := ChangePasswordForm{CurrentPassword: "same", NewPassword: "same"}.Validate()
	if errs["new_password"] != "New password must be different from current password." {
		t.Errorf("unexpected errors: %v", errs)
	}

	errs = ChangePasswordForm{}.Validate()
	if len(errs) != 2 {
		t.Errorf("expected two errors, got %v", errs)
	}
}

func TestTopUpForm_Parse(t *testing.T) {
	amount, errs := TopUpForm{Amount: " 25.50 "}.Parse()
	if len(errs) != 0 || amount != 25.5 {
		t.Errorf("expected 25.5, got %v %v", amount, errs)
	}

	for _, raw := range []string{"", "abc", "0", "-3"} {
		if _, errs := (TopUpForm{Amount: raw}).Parse(); errs["top_up"] == "" {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestParseTicketQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"7", 7, false},
		{"99", 99, false},
		{"100", 0, true},
		{"-1", 0, true},
		{"two", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTicketQuantity(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseTicketQuantity(%q) expected ErrInvalidInput, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTicketQuantity(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}
