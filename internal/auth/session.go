// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// DefaultSessionLifetime is how long a session stays valid after creation
// unless configured otherwise.
const DefaultSessionLifetime = 7 * 24 * time.Hour

// Session is the server-side record of an authenticated browser.
// ID is the SHA-256 hex digest of the raw token, never the token itself.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// NewSession creates a validated Session instance.
// IP and UserAgent are optional and may be empty.
func NewSession(tokenHash string, userID int64, ip, userAgent string, expiresAt time.Time) (*Session, error) {
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if userID <= 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID must be positive")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}

	return &Session{
		ID:        tokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session by its ID (the token digest).
	// Returns ErrNotFound if no row matches.
	GetByID(ctx context.Context, id string) (*Session, error)

	// Delete removes a session by ID.
	// Returns ErrNotFound if no row matches.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes all sessions for a user.
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteExpired removes all expired sessions and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
