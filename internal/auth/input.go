// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/oops"
)

// Field length constraints.
const (
	MinNameLength     = 2
	MaxNameLength     = 255
	MinUsernameLength = 3
	MaxUsernameLength = 255
	MaxEmailLength    = 255
	MinPasswordLength = 8
)

// usernameRegex matches usernames containing only letters, numbers,
// underscores, and hyphens.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// RegisterInput is the already-structurally-typed registration payload.
// Validate must be called by the transport layer before the input reaches
// Service.Register; the service itself assumes a valid input.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     Role
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// invalidInput builds a validation error whose message is safe to show to
// the end user verbatim.
func invalidInput(msg string) error {
	return oops.Code("AUTH_INVALID_INPUT").Errorf("%s", msg)
}

// Validate checks the input against the portal's registration rules,
// normalizing it in place: name and email are trimmed, email is lower-cased,
// and an empty role defaults to applicant.
// The returned error message is user-facing; the first violation wins.
func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if len(in.Name) < MinNameLength {
		return invalidInput("Name must be at least 2 characters long")
	}
	if len(in.Name) > MaxNameLength {
		return invalidInput("Name must be at most 255 characters long")
	}

	if len(in.Username) < MinUsernameLength {
		return invalidInput("Username must be at least 3 characters long")
	}
	if len(in.Username) > MaxUsernameLength {
		return invalidInput("Username must be at most 255 characters long")
	}
	if !usernameRegex.MatchString(in.Username) {
		return invalidInput("Username can only contain letters, numbers, hyphens, and underscores")
	}

	if err := validateEmail(in.Email); err != nil {
		return err
	}

	if err := ValidatePassword(in.Password); err != nil {
		return err
	}

	if in.Role == "" {
		in.Role = RoleApplicant
	}
	if !in.Role.Valid() {
		return invalidInput("Role must be either applicant or employer")
	}

	return nil
}

// Validate checks and normalizes the login payload.
func (in *LoginInput) Validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if len(in.Password) < MinPasswordLength {
		return invalidInput("Password must be at least 8 characters long")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return invalidInput("Please enter a valid email address")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalidInput("Please enter a valid email address")
	}
	return nil
}

// ValidatePassword enforces the portal's password complexity rules:
// at least MinPasswordLength characters with a lowercase letter, an
// uppercase letter, and a digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalidInput("Password must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return invalidInput("Password must contain a lowercase letter, an uppercase letter, and a number")
	}
	return nil
}
