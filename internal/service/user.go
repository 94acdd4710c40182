// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet/internal/metrics"
	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/repository"
)

// User service errors.
var (
	ErrEmailInUse       = errors.New("email already in use")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// UserStore is the persistence surface the user service depends on.
// *repository.Repository satisfies it; tests substitute fakes.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserBySessionToken(ctx context.Context, token string) (*model.User, error)
}

// UserService handles registration and identity resolution.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
// SessionToken is resolved by the transport layer: the inbound cookie
// value when present, a freshly generated token otherwise.
type RegisterInput struct {
	Name         string
	Email        string
	SessionToken string
}

// Register creates a new user. The email must not be taken.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	// Explicit lookup first for a deterministic conflict answer. The unique
	// index on email catches the insert race below.
	_, err := s.store.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		SessionToken: input.SessionToken,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// ResolveSession returns the user owning the given session token.
// No caching: every call re-queries the store.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := s.store.GetUserBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return user, nil
}

// GetSelf retrieves a user by id for the self-fetch endpoint.
func (s *UserService) GetSelf(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
