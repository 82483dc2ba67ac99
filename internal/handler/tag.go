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

const (
	msgCreateTagFailed      = "Failed to create tag"
	msgCreateDreamTagFailed = "Failed to create DreamTag"
	msgDreamTagNotFound     = "DreamTag not found"
)

// TagHandler handles HTTP requests for tags and dream-tag associations.
type TagHandler struct {
	svc    TagService
	logger *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListTags handles GET /tags.
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToTagListResponse(tags))
}

// CreateTag handles POST /tags.
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.TagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusBadRequest, "TAG_CREATE_FAILED", msgCreateTagFailed)
		return
	}

	tag, err := h.svc.CreateTag(r.Context(), service.TagInput{Name: req.Name})
	if err != nil {
		h.handleCreateError(w, r, err, "TAG_CREATE_FAILED", msgCreateTagFailed)
		return
	}

	h.logger.Info("tag_created",
		"tag_id", tag.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.TagResponse{ID: tag.ID, Name: tag.Name})
}

// ListDreamTags handles GET /dream-tags.
func (h *TagHandler) ListDreamTags(w http.ResponseWriter, r *http.Request) {
	dts, err := h.svc.ListDreamTags(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDreamTagListResponse(dts))
}

// CreateDreamTag handles POST /dream-tags.
func (h *TagHandler) CreateDreamTag(w http.ResponseWriter, r *http.Request) {
	var req dto.DreamTagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err, http.StatusBadRequest, "DREAM_TAG_CREATE_FAILED", msgCreateDreamTagFailed)
		return
	}

	dt, err := h.svc.CreateDreamTag(r.Context(), service.DreamTagInput{
		DreamLogID: req.DreamLogID,
		TagID:      req.TagID,
	})
	if err != nil {
		h.handleCreateError(w, r, err, "DREAM_TAG_CREATE_FAILED", msgCreateDreamTagFailed)
		return
	}

	h.logger.Info("dream_tag_created",
		"dream_tag_id", dt.ID,
		"dream_log_id", dt.DreamLogID,
		"tag_id", dt.TagID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToDreamTagResponse(dt))
}

// GetDreamTag handles GET /dream-tags/{id}.
func (h *TagHandler) GetDreamTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "DREAM_TAG_NOT_FOUND", msgDreamTagNotFound)
		return
	}

	dt, err := h.svc.GetDreamTag(r.Context(), id)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDreamTagResponse(dt))
}

// DeleteDreamTag handles DELETE /dream-tags/{id}.
func (h *TagHandler) DeleteDreamTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "DREAM_TAG_NOT_FOUND", msgDreamTagNotFound)
		return
	}

	if err := h.svc.DeleteDreamTag(r.Context(), id); err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	h.logger.Info("dream_tag_deleted",
		"dream_tag_id", id,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleCreateError reports validation and conflict failures with one
// generic 400 message.
func (h *TagHandler) handleCreateError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, http.StatusBadRequest, code, message, verr)
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, code, message)
	default:
		h.internalError(w, r, err)
	}
}

func (h *TagHandler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "DREAM_TAG_NOT_FOUND", msgDreamTagNotFound)
		return
	}
	h.internalError(w, r, err)
}

func (h *TagHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal_error",
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
