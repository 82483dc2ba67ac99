package dto

import (
	"time"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// CreateDreamLogRequest represents the request body for creating a dream log.
// A user_id in the body is accepted and ignored; the owner is the session user.
type CreateDreamLogRequest struct {
	Title       *string  `json:"title"`
	TextContent *string  `json:"text_content"`
	IsPublic    *bool    `json:"is_public"`
	Rating      *string  `json:"rating"`
	Tags        []string `json:"tags"`
}

// DreamLogResponse represents a dream log in API responses.
type DreamLogResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	TextContent string        `json:"text_content"`
	IsPublic    bool          `json:"is_public"`
	Rating      *string       `json:"rating"`
	PublishedAt time.Time     `json:"published_at"`
	EditedAt    time.Time     `json:"edited_at"`
	UserID      int64         `json:"user_id"`
	User        UserResponse  `json:"user"`
	Tags        []TagResponse `json:"tags"`
}

// ToDreamLogResponse converts a model.DreamLog to DreamLogResponse.
func ToDreamLogResponse(log *model.DreamLog) DreamLogResponse {
	resp := DreamLogResponse{
		ID:          log.ID,
		Title:       log.Title,
		TextContent: log.TextContent,
		IsPublic:    log.IsPublic,
		PublishedAt: log.PublishedAt,
		EditedAt:    log.EditedAt,
		UserID:      log.UserID,
		User:        ToUserResponse(&log.Owner),
		Tags:        ToTagListResponse(log.Tags),
	}
	if log.Rating != nil {
		r := string(*log.Rating)
		resp.Rating = &r
	}
	return resp
}

// ToDreamLogListResponse converts dream logs to their response form.
func ToDreamLogListResponse(logs []*model.DreamLog) []DreamLogResponse {
	out := make([]DreamLogResponse, len(logs))
	for i, log := range logs {
		out[i] = ToDreamLogResponse(log)
	}
	return out
}
