// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

// Package postgres implements the auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/jobgate/jobgate/internal/auth"
)

// db is the subset of pgxpool.Pool the repositories use. pgxmock's
// PgxPoolIface satisfies it, so unit tests run without a database.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Unique constraint names from the users migration. The insert maps
// violations back to conflict codes by these names.
const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool db
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool db) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, username, email, password_hash, role, phone_number, created_at, updated_at`

// Create stores a new user and fills the store-assigned ID and timestamps.
// The unique constraints are the source of truth for email/username
// uniqueness; violations come back as AUTH_EMAIL_TAKEN or
// AUTH_USERNAME_TAKEN so a lost registration race surfaces as a conflict,
// not an infrastructure error.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, password_hash, role, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		user.Name,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.PhoneNumber,
	)

	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case emailConstraint:
				return oops.Code("AUTH_EMAIL_TAKEN").
					With("constraint", pgErr.ConstraintName).
					Errorf("email already registered")
			case usernameConstraint:
				return oops.Code("AUTH_USERNAME_TAKEN").
					With("constraint", pgErr.ConstraintName).
					Errorf("username already registered")
			}
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
// Emails are stored lower-cased, so the lookup is a plain equality match.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	return user, nil
}

// GetByEmailOrUsername retrieves the first user matching either field.
// Rows matching on email order first so the email conflict wins the
// tie-break when one row matches on email and another on username.
func (r *UserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 OR username = $2
		ORDER BY (email = $1) DESC
		LIMIT 1
	`, email, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_OR_USERNAME_FAILED").
			With("operation", "get user by email or username").
			Wrap(err)
	}
	return user, nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user    auth.User
		roleStr string
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&roleStr,
		&user.PhoneNumber,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	user.Role = auth.Role(roleStr)
	return &user, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
