// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signup validates the account-creation form and rates passwords.
//
// Validation runs before any request is made; a form that fails it never
// reaches the server.
package signup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/salestrainer/salestrainer-tui/internal/api"
)

// DefaultMinLength is the client-side minimum password length.
const DefaultMinLength = 8

// =============================================================================
// FORM VALIDATION
// =============================================================================

// Form is the signup form as entered.
type Form struct {
	Name        string
	Email       string
	Password    string
	Confirm     string
	AcceptTerms bool
}

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of field errors in form order.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// First returns the first message, which is what the toast shows.
func (e ValidationErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Normalized trims the name and email and puts all text fields in NFC, so
// visually identical input compares and transmits identically.
func (f Form) Normalized() Form {
	f.Name = norm.NFC.String(strings.TrimSpace(f.Name))
	f.Email = norm.NFC.String(strings.TrimSpace(f.Email))
	f.Password = norm.NFC.String(f.Password)
	f.Confirm = norm.NFC.String(f.Confirm)
	return f
}

// Validate checks the form. minLength <= 0 uses DefaultMinLength.
// It returns ValidationErrors or nil.
func (f Form) Validate(minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	f = f.Normalized()

	var errs ValidationErrors
	if f.Name == "" {
		errs = append(errs, FieldError{"name", "Please enter your name"})
	}
	if f.Email == "" {
		errs = append(errs, FieldError{"email", "Please enter your email address"})
	}
	if f.Password == "" {
		errs = append(errs, FieldError{"password", "Please enter a password"})
	} else if utf8.RuneCountInString(f.Password) < minLength {
		errs = append(errs, FieldError{"password", fmt.Sprintf("Password must be at least %d characters long", minLength)})
	}
	if f.Password != f.Confirm {
		errs = append(errs, FieldError{"confirm", "Passwords do not match"})
	}
	if !f.AcceptTerms {
		errs = append(errs, FieldError{"terms", "You must agree to the Terms of Service and Privacy Policy"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Request builds the register request from a normalized form.
func (f Form) Request() api.RegisterRequest {
	n := f.Normalized()
	return api.RegisterRequest{Name: n.Name, Email: n.Email, Password: n.Password}
}
