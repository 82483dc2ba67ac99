package dto

import "github.com/dreamjournal/dreamjournal/internal/model"

// TagRequest represents the request body for creating a tag.
type TagRequest struct {
	Name string `json:"name"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DreamTagRequest represents the request body for creating an association.
type DreamTagRequest struct {
	DreamLogID int64 `json:"dream_log_id"`
	TagID      int64 `json:"tag_id"`
}

// DreamTagResponse represents a dream-tag association in API responses.
type DreamTagResponse struct {
	ID         int64 `json:"id"`
	DreamLogID int64 `json:"dream_log_id"`
	TagID      int64 `json:"tag_id"`
}

// ToTagListResponse converts tags to their response form; never nil.
func ToTagListResponse(tags []model.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name}
	}
	return out
}

// ToDreamTagResponse converts a model.DreamTag to DreamTagResponse.
func ToDreamTagResponse(dt *model.DreamTag) DreamTagResponse {
	return DreamTagResponse{
		ID:         dt.ID,
		DreamLogID: dt.DreamLogID,
		TagID:      dt.TagID,
	}
}

// ToDreamTagListResponse converts associations to their response form.
func ToDreamTagListResponse(dts []model.DreamTag) []DreamTagResponse {
	out := make([]DreamTagResponse, len(dts))
	for i := range dts {
		out[i] = ToDreamTagResponse(&dts[i])
	}
	return out
}
