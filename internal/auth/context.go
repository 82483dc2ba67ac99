package auth

import (
	"context"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "session_token"
)

// ContextWithSession adds the authenticated session and its raw token to the context.
func ContextWithSession(ctx context.Context, session *model.Session, token string) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, tokenContextKey, token)
}

// SessionFromContext retrieves the session from the context.
// Returns nil if the request is anonymous.
func SessionFromContext(ctx context.Context) *model.Session {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return session
}

// TokenFromContext returns the raw session token, or "" for anonymous requests.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// UserIDFromContext is a convenience function to get the session user id.
// Returns 0 if not authenticated.
func UserIDFromContext(ctx context.Context) int64 {
	session := SessionFromContext(ctx)
	if session == nil {
		return 0
	}
	return session.UserID
}
