// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobgate/jobgate/internal/auth"
	"github.com/jobgate/jobgate/pkg/errutil"
)

func newUserRepoMock(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })

	return NewUserRepository(mock), mock
}

func sampleUser() *auth.User {
	return &auth.User{
		Name:         "Jane Doe",
		Username:     "jane_doe",
		Email:        "jane@example.com",
		PasswordHash: "$argon2id$hashed",
		Role:         auth.RoleApplicant,
	}
}

func userRows(u *auth.User) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "name", "username", "email", "password_hash", "role",
		"phone_number", "created_at", "updated_at",
	}).AddRow(
		int64(7), u.Name, u.Username, u.Email, u.PasswordHash,
		string(u.Role), u.PhoneNumber, now, now,
	)
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("fills store-assigned fields", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		user := sampleUser()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.Name, user.Username, user.Email, user.PasswordHash, "applicant", user.PhoneNumber).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(7), now, now))

		require.NoError(t, repo.Create(t.Context(), user))
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, now, user.CreatedAt)
		assert.Equal(t, now, user.UpdatedAt)
	})

	t.Run("email unique violation maps to conflict", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		user := sampleUser()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.Name, user.Username, user.Email, user.PasswordHash, "applicant", user.PhoneNumber).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: emailConstraint,
			})

		err := repo.Create(t.Context(), user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMAIL_TAKEN")
	})

	t.Run("username unique violation maps to conflict", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		user := sampleUser()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.Name, user.Username, user.Email, user.PasswordHash, "applicant", user.PhoneNumber).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: usernameConstraint,
			})

		err := repo.Create(t.Context(), user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_USERNAME_TAKEN")
	})

	t.Run("unrelated unique violation is an infrastructure error", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		user := sampleUser()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.Name, user.Username, user.Email, user.PasswordHash, "applicant", user.PhoneNumber).
			WillReturnError(&pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "some_other_key",
			})

		err := repo.Create(t.Context(), user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "USER_CREATE_FAILED")
	})

	t.Run("other database errors surface", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		user := sampleUser()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.Name, user.Username, user.Email, user.PasswordHash, "applicant", user.PhoneNumber).
			WillReturnError(errors.New("connection refused"))

		err := repo.Create(t.Context(), user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "USER_CREATE_FAILED")
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("returns user", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		want := sampleUser()

		mock.ExpectQuery(`FROM users`).
			WithArgs(int64(7)).
			WillReturnRows(userRows(want))

		got, err := repo.GetByID(t.Context(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, auth.RoleApplicant, got.Role)
	})

	t.Run("missing row is ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)

		mock.ExpectQuery(`FROM users`).
			WithArgs(int64(7)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(t.Context(), 7)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Run("returns user", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		want := sampleUser()

		mock.ExpectQuery(`FROM users`).
			WithArgs(want.Email).
			WillReturnRows(userRows(want))

		got, err := repo.GetByEmail(t.Context(), want.Email)
		require.NoError(t, err)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.PasswordHash, got.PasswordHash)
	})

	t.Run("missing row is ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)

		mock.ExpectQuery(`FROM users`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(t.Context(), "nobody@example.com")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	t.Run("returns matching user", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		want := sampleUser()

		mock.ExpectQuery(`OR username`).
			WithArgs(want.Email, want.Username).
			WillReturnRows(userRows(want))

		got, err := repo.GetByEmailOrUsername(t.Context(), want.Email, want.Username)
		require.NoError(t, err)
		assert.Equal(t, want.Email, got.Email)
	})

	t.Run("no match is ErrNotFound", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)

		mock.ExpectQuery(`OR username`).
			WithArgs("nobody@example.com", "nobody").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmailOrUsername(t.Context(), "nobody@example.com", "nobody")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}
