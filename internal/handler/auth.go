package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/handler/dto"
	"github.com/dreamjournal/dreamjournal/internal/middleware"
	"github.com/dreamjournal/dreamjournal/internal/service"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

const (
	msgSignupFailed = "Signup failed"
	msgLoginFailed  = "Failed to login, check username or password"

	userIDCookie   = "user_id"
	usernameCookie = "username"
)

// CookieConfig controls the cookies issued on signup and login.
type CookieConfig struct {
	SessionName string
	Secure      bool
	TTL         time.Duration
}

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	svc     AuthService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		cookies: cookies,
		logger:  logger,
	}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusUnprocessableEntity, "SIGNUP_FAILED", msgSignupFailed)
		return
	}

	result, err := h.svc.Signup(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, http.StatusUnprocessableEntity, "SIGNUP_FAILED", msgSignupFailed, verr)
		case errors.Is(err, service.ErrConflict):
			writeValidationError(w, http.StatusUnprocessableEntity, "SIGNUP_FAILED", msgSignupFailed,
				validation.NewError("username", "is already taken"))
		default:
			h.internalError(w, r, err)
		}
		return
	}

	h.setSessionCookies(w, result)

	h.logger.Info("user_signed_up",
		"user_id", result.User.ID,
		"session_id", result.Session.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(result.User))
}

// Login handles POST /login. Every failure yields the same 401 body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgLoginFailed)
		return
	}

	result, err := h.svc.Login(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("login_failed",
				"request_id", middleware.GetRequestID(r.Context()),
			)
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgLoginFailed)
			return
		}
		h.internalError(w, r, err)
		return
	}

	h.setSessionCookies(w, result)

	h.logger.Info("user_logged_in",
		"user_id", result.User.ID,
		"session_id", result.Session.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(result.User))
}

// Logout handles DELETE /logout. It always answers 204 and clears every
// cookie, whether or not a session existed. Only a session resolved by
// LoadSession is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromContext(r.Context()); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout_failed",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
		}
	}

	for _, name := range []string{h.cookies.SessionName, userIDCookie, usernameCookie} {
		http.SetCookie(w, h.expiredCookie(name))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, result *service.AuthResult) {
	maxAge := int(h.cookies.TTL.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.SessionName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	// Identity cookies are informational for the client; the server never
	// reads them for authorization.
	http.SetCookie(w, &http.Cookie{
		Name:     userIDCookie,
		Value:    strconv.FormatInt(result.User.ID, 10),
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     usernameCookie,
		Value:    result.User.Username,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: name == h.cookies.SessionName,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal_error",
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
