package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/metrics"
	"github.com/dreamjournal/dreamjournal/internal/model"
	"github.com/dreamjournal/dreamjournal/internal/repository"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

// Credentials is the shared user schema for POST /users, /signup and /login.
type Credentials struct {
	Username string `json:"username" validate:"required,min=4,max=30"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UserService handles user accounts.
type UserService struct {
	repo     *repository.Repository
	sessions SessionStore
	validate *validation.Validator
	metrics  metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, sessions SessionStore, v *validation.Validator, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if v == nil {
		v = validation.New()
	}
	return &UserService{
		repo:     repo,
		sessions: sessions,
		validate: v,
		metrics:  recorder,
	}
}

// Create validates the credentials, hashes the password and stores the user.
func (s *UserService) Create(ctx context.Context, in Credentials) (*model.User, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	start := time.Now()
	hash, err := auth.HashPassword(in.Password)
	s.metrics.ObservePasswordHashDuration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListUsers(ctx)
}

// Delete removes a user together with their dream logs and sessions.
// Sessions are revoked first so a failed revoke leaves the account intact.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if s.sessions != nil {
		if err := s.sessions.DeleteUserSessions(ctx, id); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.metrics.IncUserDeleted()
	return nil
}
