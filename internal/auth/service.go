// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/jobgate/jobgate/pkg/errutil"
)

// Service orchestrates registration and login. It composes the password
// hasher, the user store, and the session service; the transport layer
// converts its coded errors into the fixed user-facing messages.
type Service struct {
	users    UserRepository
	sessions *SessionService
	hasher   PasswordHasher
}

// NewService creates a Service.
func NewService(users UserRepository, sessions *SessionService, hasher PasswordHasher) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session service is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a user and an initial session for it.
// The input must already have passed RegisterInput.Validate; receiving an
// invalid input here is a caller bug.
//
// The pre-check reports at most one conflict per attempt, email first. The
// database unique constraints remain the source of truth: a registration
// that loses the insert race still comes back as the same conflict code,
// mapped by the repository from the constraint violation.
//
// User insert and session insert are two writes. If the session write fails
// after the user row committed, the whole request fails and a sessionless
// user row remains; login still works for it.
func (s *Service) Register(ctx context.Context, in RegisterInput, ip, userAgent string) (*User, string, error) {
	existing, err := s.users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "conflict pre-check").
			Wrap(err)
	}
	if err == nil {
		if existing.Email == in.Email {
			return nil, "", oops.Code("AUTH_EMAIL_TAKEN").Errorf("email already registered")
		}
		return nil, "", oops.Code("AUTH_USERNAME_TAKEN").Errorf("username already registered")
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := &User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Conflict codes from the unique constraints pass through unchanged
		// so a lost race reads the same as a pre-check hit.
		if code := errutil.Code(err); code == "AUTH_EMAIL_TAKEN" || code == "AUTH_USERNAME_TAKEN" {
			return nil, "", err
		}
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	_, token, err := s.sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create session").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, token, nil
}

// Login authenticates by email and password and creates a fresh session.
// Unknown email and wrong password are indistinguishable to the caller:
// both yield AUTH_INVALID_CREDENTIALS, and password verification runs
// either way so the two paths cost the same.
func (s *Service) Login(ctx context.Context, in LoginInput, ip, userAgent string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, in.Email)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(in.Password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	_, token, err := s.sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			With("user_id", user.ID).
			Wrap(err)
	}

	return user, token, nil
}

// Logout destroys the session for the given raw token.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	return s.sessions.Destroy(ctx, rawToken)
}

// Resolve maps a raw session token to its user and session.
func (s *Service) Resolve(ctx context.Context, rawToken string) (*User, *Session, error) {
	return s.sessions.Resolve(ctx, rawToken)
}

// SessionLifetime exposes the configured lifetime so the cookie layer can
// keep Max-Age aligned with row expiry.
func (s *Service) SessionLifetime() time.Duration {
	return s.sessions.Lifetime()
}
