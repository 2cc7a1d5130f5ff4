// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobgate/jobgate/internal/auth"
	"github.com/jobgate/jobgate/internal/auth/mocks"
	"github.com/jobgate/jobgate/pkg/errutil"
)

func TestNewSessionService(t *testing.T) {
	t.Run("nil sessions repository", func(t *testing.T) {
		svc, err := auth.NewSessionService(nil, mocks.NewMockUserRepository(t), time.Hour)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("nil users repository", func(t *testing.T) {
		svc, err := auth.NewSessionService(mocks.NewMockSessionRepository(t), nil, time.Hour)
		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("non-positive lifetime falls back to default", func(t *testing.T) {
		svc, err := auth.NewSessionService(mocks.NewMockSessionRepository(t), mocks.NewMockUserRepository(t), 0)
		require.NoError(t, err)
		assert.Equal(t, auth.DefaultSessionLifetime, svc.Lifetime())
	})

	t.Run("keeps explicit lifetime", func(t *testing.T) {
		svc, err := auth.NewSessionService(mocks.NewMockSessionRepository(t), mocks.NewMockUserRepository(t), time.Hour)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.Lifetime())
	})
}

func TestSessionService_Create(t *testing.T) {
	t.Run("persists session keyed by token digest", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewSessionService(sessions, mocks.NewMockUserRepository(t), time.Hour)
		require.NoError(t, err)

		var stored *auth.Session
		sessions.On("Create", mock.Anything, mock.AnythingOfType("*auth.Session")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*auth.Session)
			}).
			Return(nil)

		session, token, err := svc.Create(t.Context(), 42, "198.51.100.7", "Mozilla/5.0")
		require.NoError(t, err)

		assert.Len(t, token, 64)
		assert.Equal(t, auth.HashSessionToken(token), session.ID)
		assert.NotEqual(t, token, session.ID, "raw token must never be stored")
		assert.Equal(t, int64(42), session.UserID)
		assert.Equal(t, "198.51.100.7", session.IP)
		assert.Equal(t, "Mozilla/5.0", session.UserAgent)
		assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
		assert.Same(t, session, stored)
	})

	t.Run("store failure is fatal", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewSessionService(sessions, mocks.NewMockUserRepository(t), time.Hour)
		require.NoError(t, err)

		sessions.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection lost"))

		_, _, err = svc.Create(t.Context(), 42, "", "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_CREATE_FAILED")
	})
}

func TestSessionService_Resolve(t *testing.T) {
	newSvc := func(t *testing.T) (*auth.SessionService, *mocks.MockSessionRepository, *mocks.MockUserRepository) {
		t.Helper()
		sessions := mocks.NewMockSessionRepository(t)
		users := mocks.NewMockUserRepository(t)
		svc, err := auth.NewSessionService(sessions, users, time.Hour)
		require.NoError(t, err)
		return svc, sessions, users
	}

	t.Run("resolves valid session to its user", func(t *testing.T) {
		svc, sessions, users := newSvc(t)

		token, tokenHash, err := auth.GenerateSessionToken()
		require.NoError(t, err)

		session := &auth.Session{ID: tokenHash, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}
		user := &auth.User{ID: 42, Email: "jane@example.com"}

		sessions.On("GetByID", mock.Anything, tokenHash).Return(session, nil)
		users.On("GetByID", mock.Anything, int64(42)).Return(user, nil)

		gotUser, gotSession, err := svc.Resolve(t.Context(), token)
		require.NoError(t, err)
		assert.Equal(t, user, gotUser)
		assert.Equal(t, session, gotSession)
	})

	t.Run("empty token is not found", func(t *testing.T) {
		svc, _, _ := newSvc(t)

		_, _, err := svc.Resolve(t.Context(), "")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_NOT_FOUND")
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		svc, sessions, _ := newSvc(t)

		sessions.On("GetByID", mock.Anything, mock.Anything).Return(nil, auth.ErrNotFound)

		_, _, err := svc.Resolve(t.Context(), "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_NOT_FOUND")
	})

	t.Run("expired but unswept row does not resolve", func(t *testing.T) {
		svc, sessions, _ := newSvc(t)

		session := &auth.Session{ID: "hash", UserID: 42, ExpiresAt: time.Now().Add(-time.Minute)}
		sessions.On("GetByID", mock.Anything, mock.Anything).Return(session, nil)

		_, _, err := svc.Resolve(t.Context(), "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_EXPIRED")
	})

	t.Run("session whose user is gone is not found", func(t *testing.T) {
		svc, sessions, users := newSvc(t)

		session := &auth.Session{ID: "hash", UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}
		sessions.On("GetByID", mock.Anything, mock.Anything).Return(session, nil)
		users.On("GetByID", mock.Anything, int64(42)).Return(nil, auth.ErrNotFound)

		_, _, err := svc.Resolve(t.Context(), "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_NOT_FOUND")
	})

	t.Run("store failure surfaces as resolve failure", func(t *testing.T) {
		svc, sessions, _ := newSvc(t)

		sessions.On("GetByID", mock.Anything, mock.Anything).Return(nil, errors.New("connection lost"))

		_, _, err := svc.Resolve(t.Context(), "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_RESOLVE_FAILED")
	})
}

func TestSessionService_Destroy(t *testing.T) {
	newSvc := func(t *testing.T) (*auth.SessionService, *mocks.MockSessionRepository) {
		t.Helper()
		sessions := mocks.NewMockSessionRepository(t)
		svc, err := auth.NewSessionService(sessions, mocks.NewMockUserRepository(t), time.Hour)
		require.NoError(t, err)
		return svc, sessions
	}

	t.Run("deletes by token digest", func(t *testing.T) {
		svc, sessions := newSvc(t)

		sessions.On("Delete", mock.Anything, auth.HashSessionToken("sometoken")).Return(nil)
		assert.NoError(t, svc.Destroy(t.Context(), "sometoken"))
	})

	t.Run("absent session is not an error", func(t *testing.T) {
		svc, sessions := newSvc(t)

		sessions.On("Delete", mock.Anything, mock.Anything).Return(auth.ErrNotFound)
		assert.NoError(t, svc.Destroy(t.Context(), "sometoken"))
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		svc, _ := newSvc(t)
		assert.NoError(t, svc.Destroy(t.Context(), ""))
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		svc, sessions := newSvc(t)

		sessions.On("Delete", mock.Anything, mock.Anything).Return(errors.New("connection lost"))

		err := svc.Destroy(t.Context(), "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "SESSION_DESTROY_FAILED")
	})
}

func TestSessionService_SweepExpired(t *testing.T) {
	sessions := mocks.NewMockSessionRepository(t)
	svc, err := auth.NewSessionService(sessions, mocks.NewMockUserRepository(t), time.Hour)
	require.NoError(t, err)

	sessions.On("DeleteExpired", mock.Anything).Return(int64(3), nil)

	n, err := svc.SweepExpired(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
