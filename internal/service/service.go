// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// Service errors. Handlers map them to HTTP statuses; validation failures
// are reported separately as *validation.Error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflicts with existing data")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("caller does not own this resource")
)

// SessionStore persists server-side sessions keyed by an opaque token.
type SessionStore interface {
	Create(ctx context.Context, userID int64, username string) (string, *model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
}
