// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// SessionService issues and resolves sessions. It owns the raw-token to
// digest mapping; callers only ever see the raw token, the store only ever
// sees the digest.
type SessionService struct {
	sessions SessionRepository
	users    UserRepository
	lifetime time.Duration
}

// NewSessionService creates a SessionService. lifetime <= 0 falls back to
// DefaultSessionLifetime.
func NewSessionService(sessions SessionRepository, users UserRepository, lifetime time.Duration) (*SessionService, error) {
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &SessionService{sessions: sessions, users: users, lifetime: lifetime}, nil
}

// Lifetime returns the configured session lifetime. The cookie layer uses it
// for Max-Age so cookie expiry and row expiry stay in lockstep.
func (s *SessionService) Lifetime() time.Duration {
	return s.lifetime
}

// Create generates a fresh token, persists the session row keyed by the
// token's digest, and returns the session plus the raw token for the cookie.
// A store write failure is fatal for the enclosing request.
func (s *SessionService) Create(ctx context.Context, userID int64, ip, userAgent string) (*Session, string, error) {
	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(tokenHash, userID, ip, userAgent, time.Now().Add(s.lifetime))
	if err != nil {
		return nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	return session, token, nil
}

// Resolve maps a raw token back to its session and owning user.
// An absent row and an expired row are both reported as SESSION_NOT_FOUND /
// SESSION_EXPIRED; neither is an error worth logging, an expired or deleted
// cookie is a normal outcome.
func (s *SessionService) Resolve(ctx context.Context, rawToken string) (*User, *Session, error) {
	if rawToken == "" {
		return nil, nil, oops.Code("SESSION_NOT_FOUND").Errorf("session token cannot be empty")
	}

	session, err := s.sessions.GetByID(ctx, HashSessionToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_NOT_FOUND").Wrap(err)
		}
		return nil, nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	// An expired row that has not been swept yet must not resolve.
	if session.IsExpired() {
		return nil, nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Session row outlived its user; treat like a missing session.
			return nil, nil, oops.Code("SESSION_NOT_FOUND").Wrap(err)
		}
		return nil, nil, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session user").
			Wrap(err)
	}

	return user, session, nil
}

// Destroy invalidates the session identified by the raw token.
// Destroying an already-absent session is not an error.
func (s *SessionService) Destroy(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	err := s.sessions.Delete(ctx, HashSessionToken(rawToken))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return oops.Code("SESSION_DESTROY_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// SweepExpired deletes all expired session rows and returns the count.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return n, nil
}
