// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth

import (
	"context"
	"time"
)

// Role distinguishes the two kinds of portal accounts.
type Role string

// Supported roles.
const (
	RoleApplicant Role = "applicant"
	RoleEmployer  Role = "employer"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleEmployer
}

// User represents a portal account.
// Email and Username are each globally unique; the database constraints
// (users_email_key, users_username_key) are the source of truth, the
// application-level pre-check exists only for friendly error messages.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	PhoneNumber  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and fills the store-assigned ID and
	// timestamps. A unique-constraint violation is reported as a conflict
	// error carrying the AUTH_EMAIL_TAKEN or AUTH_USERNAME_TAKEN code.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	// Returns ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email.
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByEmailOrUsername retrieves the first user matching either field,
	// preferring an email match when both collide. Used for the
	// registration conflict pre-check.
	// Returns ErrNotFound when neither field is taken.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
}
