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
)

// AuthResult is a signed-in user and the token naming their session.
type AuthResult struct {
	User    *model.User
	Token   string
	Session *model.Session
}

// AuthService handles signup, login and logout.
type AuthService struct {
	repo     *repository.Repository
	users    *UserService
	sessions SessionStore
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService. Signup delegates account
// creation to users so both entry points share one schema.
func NewAuthService(repo *repository.Repository, users *UserService, sessions SessionStore, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:     repo,
		users:    users,
		sessions: sessions,
		metrics:  recorder,
	}
}

// Signup creates an account and signs it in.
func (s *AuthService) Signup(ctx context.Context, in Credentials) (*AuthResult, error) {
	user, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.IncSignup()
	return result, nil
}

// Login checks the credentials and opens a session. Every failure,
// including malformed input, is reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	start := time.Now()
	user, err := s.repo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		auth.VerifyDummy(in.Password)
		s.metrics.ObservePasswordHashDuration(time.Since(start))
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(in.Password, user.PasswordHash)
	s.metrics.ObservePasswordHashDuration(time.Since(start))
	if err != nil || !ok {
		s.metrics.IncLogin("failed")
		return nil, ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLogin("success")
	return result, nil
}

// Logout revokes the session named by token. Unknown or empty tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.metrics.IncLogout()
	return nil
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, session, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &AuthResult{User: user, Token: token, Session: session}, nil
}
