package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreamjournal/dreamjournal/internal/metrics"
	"github.com/dreamjournal/dreamjournal/internal/model"
	"github.com/dreamjournal/dreamjournal/internal/repository"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

// TagInput defines input for creating a tag.
type TagInput struct {
	Name string `json:"name" validate:"required,min=1,max=30"`
}

// DreamTagInput defines input for associating a tag with a dream log.
type DreamTagInput struct {
	DreamLogID int64 `json:"dream_log_id" validate:"required,gt=0"`
	TagID      int64 `json:"tag_id" validate:"required,gt=0"`
}

// TagService handles tags and dream-tag associations.
type TagService struct {
	repo     *repository.Repository
	validate *validation.Validator
	metrics  metrics.Recorder
}

// NewTagService creates a new TagService.
func NewTagService(repo *repository.Repository, v *validation.Validator, recorder metrics.Recorder) *TagService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if v == nil {
		v = validation.New()
	}
	return &TagService{
		repo:     repo,
		validate: v,
		metrics:  recorder,
	}
}

// ListTags returns every tag ordered by id.
func (s *TagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.ListTags(ctx)
}

// CreateTag stores a tag. Duplicate names are a conflict.
func (s *TagService) CreateTag(ctx context.Context, in TagInput) (*model.Tag, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: in.Name}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.metrics.IncTagCreated()
	return tag, nil
}

// ListDreamTags returns every association ordered by id.
func (s *TagService) ListDreamTags(ctx context.Context) ([]model.DreamTag, error) {
	return s.repo.ListDreamTags(ctx)
}

// GetDreamTag retrieves an association by id.
func (s *TagService) GetDreamTag(ctx context.Context, id int64) (*model.DreamTag, error) {
	dt, err := s.repo.GetDreamTag(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDreamTagNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dt, nil
}

// CreateDreamTag associates a tag with a dream log. Unknown ids and
// repeated pairs are conflicts reported by the store.
func (s *TagService) CreateDreamTag(ctx context.Context, in DreamTagInput) (*model.DreamTag, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	dt := &model.DreamTag{DreamLogID: in.DreamLogID, TagID: in.TagID}
	if err := s.repo.CreateDreamTag(ctx, dt); err != nil {
		if errors.Is(err, repository.ErrDreamTagExists) || errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create dream tag: %w", err)
	}

	s.metrics.IncDreamTagCreated()
	return dt, nil
}

// DeleteDreamTag removes an association.
func (s *TagService) DeleteDreamTag(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDreamTag(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDreamTagNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.metrics.IncDreamTagDeleted()
	return nil
}
