package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dreamjournal/dreamjournal/internal/handler/dto"
	"github.com/dreamjournal/dreamjournal/internal/middleware"
	"github.com/dreamjournal/dreamjournal/internal/service"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

const msgCreateUserFailed = "Failed to create user, ensure a valid and non duplicate username."

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	svc    UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusBadRequest, "USER_CREATE_FAILED", msgCreateUserFailed)
		return
	}

	user, err := h.svc.Create(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, http.StatusBadRequest, "USER_CREATE_FAILED", msgCreateUserFailed, verr)
		case errors.Is(err, service.ErrConflict):
			writeError(w, http.StatusBadRequest, "USER_CREATE_FAILED", msgCreateUserFailed)
		default:
			h.handleServiceError(w, r, err)
		}
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_deleted",
		"user_id", id,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
