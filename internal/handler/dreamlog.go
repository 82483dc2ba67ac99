package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dreamjournal/dreamjournal/internal/auth"
	"github.com/dreamjournal/dreamjournal/internal/handler/dto"
	"github.com/dreamjournal/dreamjournal/internal/middleware"
	"github.com/dreamjournal/dreamjournal/internal/service"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

const (
	// MsgLoginToPost is returned when an anonymous caller creates a dream log.
	MsgLoginToPost = "You must be logged in to post a dream log"
	// MsgUnauthorized is returned for anonymous or non-owner mutations.
	MsgUnauthorized = "Unauthorized"
)

// DreamLogHandler handles HTTP requests for dream logs.
type DreamLogHandler struct {
	svc    DreamLogService
	logger *slog.Logger
}

// NewDreamLogHandler creates a new DreamLogHandler.
func NewDreamLogHandler(svc DreamLogService, logger *slog.Logger) *DreamLogHandler {
	return &DreamLogHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /dream-logs.
func (h *DreamLogHandler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, MsgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDreamLogListResponse(logs))
}

// Create handles POST /dream-logs.
func (h *DreamLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDreamLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	log, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateDreamLogInput{
		Title:       req.Title,
		TextContent: req.TextContent,
		IsPublic:    req.IsPublic,
		Rating:      req.Rating,
		Tags:        req.Tags,
	})
	if err != nil {
		h.handleServiceError(w, r, err, MsgLoginToPost)
		return
	}

	h.logger.Info("dream_log_created",
		"dream_log_id", log.ID,
		"user_id", log.UserID,
		"tag_count", len(log.Tags),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToDreamLogResponse(log))
}

// Get handles GET /dream-logs/{id}.
func (h *DreamLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "DREAM_LOG_NOT_FOUND", "Dream log not found")
		return
	}

	log, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err, MsgUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDreamLogResponse(log))
}

// Patch handles PATCH /dream-logs/{id}.
func (h *DreamLogHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "DREAM_LOG_NOT_FOUND", "Dream log not found")
		return
	}

	// Payload problems are reported by the service after the ownership check.
	var input service.PatchDreamLogInput
	var raw map[string]json.RawMessage
	switch err := decodeJSON(r, &raw); {
	case errors.Is(err, errBodyTooLarge):
		writeDecodeError(w, err, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	case err != nil:
		input.Problems = map[string]string{"body": "must be a JSON object"}
	default:
		input = parseDreamLogPatch(raw)
	}

	log, err := h.svc.Patch(r.Context(), auth.UserIDFromContext(r.Context()), id, input)
	if err != nil {
		h.handleServiceError(w, r, err, MsgUnauthorized)
		return
	}

	h.logger.Info("dream_log_updated",
		"dream_log_id", log.ID,
		"user_id", log.UserID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToDreamLogResponse(log))
}

// Delete handles DELETE /dream-logs/{id}.
func (h *DreamLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "DREAM_LOG_NOT_FOUND", "Dream log not found")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err, MsgUnauthorized)
		return
	}

	h.logger.Info("dream_log_deleted",
		"dream_log_id", id,
		"user_id", userID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.WriteHeader(http.StatusNoContent)
}

// parseDreamLogPatch reads the allow-listed keys out of a PATCH body.
// Other keys, including user_id and published_at, are dropped. Nulls on
// required fields and values of the wrong type end up in Problems.
func parseDreamLogPatch(raw map[string]json.RawMessage) service.PatchDreamLogInput {
	var in service.PatchDreamLogInput
	problems := make(map[string]string)

	for _, field := range []struct {
		key string
		dst any
	}{
		{"title", &in.Title},
		{"text_content", &in.TextContent},
		{"is_public", &in.IsPublic},
	} {
		value, ok := raw[field.key]
		if !ok {
			continue
		}
		if isJSONNull(value) {
			problems[field.key] = "must not be null"
			continue
		}
		if err := json.Unmarshal(value, field.dst); err != nil {
			problems[field.key] = "has the wrong type"
		}
	}

	if value, ok := raw["rating"]; ok {
		in.RatingSet = true
		if err := json.Unmarshal(value, &in.Rating); err != nil {
			problems["rating"] = "has the wrong type"
		}
	}

	if value, ok := raw["tags"]; ok {
		in.TagsSet = true
		if err := json.Unmarshal(value, &in.Tags); err != nil {
			problems["tags"] = "has the wrong type"
		}
	}

	if len(problems) > 0 {
		in.Problems = problems
	}
	return in
}

func isJSONNull(value json.RawMessage) bool {
	return string(value) == "null"
}

func (h *DreamLogHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, unauthenticatedMsg string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid dream log", verr)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "DREAM_LOG_NOT_FOUND", "Dream log not found")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthenticatedMsg)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", MsgUnauthorized)
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
