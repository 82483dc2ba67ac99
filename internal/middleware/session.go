package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/cache"
	"github.com/dreamjournal/dreamjournal/internal/model"
)

// SessionGetter resolves a session token to its session.
type SessionGetter interface {
	Get(ctx context.Context, token string) (*model.Session, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	Store      SessionGetter
	CookieName string
}

// LoadSession attaches the session named by the session cookie to the
// request context. Requests without a valid session continue anonymously;
// use RequireSession on routes that need one.
func LoadSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Store.Get(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, cache.ErrSessionNotFound) {
					cfg.Logger.Error("session lookup failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			setLoggedUser(r.Context(), session.UserID)
			ctx := auth.ContextWithSession(r.Context(), session, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects anonymous requests with 401 and the given message.
// Must be applied after LoadSession.
func RequireSession(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.SessionFromContext(r.Context()) == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
