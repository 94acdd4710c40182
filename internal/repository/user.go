package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dailydiet/dailydiet/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, session_token, name, email)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.SessionToken,
		user.Name,
		user.Email,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, session_token, name, email
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, id), "by ID")
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, session_token, name, email
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, email), "by email")
}

// GetUserBySessionToken retrieves the user owning the given session token.
// This is the hot path for the session guard; it runs on every
// authenticated request.
func (r *Repository) GetUserBySessionToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT id, session_token, name, email
		FROM users
		WHERE session_token = $1
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, token), "by session token")
}

func (r *Repository) scanUser(row pgx.Row, what string) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.SessionToken,
		&user.Name,
		&user.Email,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", what, err)
	}

	return &user, nil
}
