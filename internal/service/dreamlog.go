package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreamjournal/dreamjournal/internal/metrics"
	"github.com/dreamjournal/dreamjournal/internal/model"
	"github.com/dreamjournal/dreamjournal/internal/repository"
	"github.com/dreamjournal/dreamjournal/internal/validation"
)

// CreateDreamLogInput defines input for creating a dream log.
// Pointers let required booleans and empty strings be told apart from absent keys.
type CreateDreamLogInput struct {
	Title       *string  `json:"title" validate:"required,min=1,max=50"`
	TextContent *string  `json:"text_content" validate:"required,max=500"`
	IsPublic    *bool    `json:"is_public" validate:"required"`
	Rating      *string  `json:"rating" validate:"omitnil,rating"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=30"`
}

// PatchDreamLogInput defines the allow-listed fields of a partial update.
// RatingSet and TagsSet record whether the key was present at all, so a
// null rating clears it and a null tag list empties the set.
type PatchDreamLogInput struct {
	Title       *string  `json:"title" validate:"omitnil,min=1,max=50"`
	TextContent *string  `json:"text_content" validate:"omitnil,max=500"`
	IsPublic    *bool    `json:"is_public"`
	Rating      *string  `json:"rating" validate:"omitnil,rating"`
	RatingSet   bool     `json:"-"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=30"`
	TagsSet     bool     `json:"-"`

	// Problems holds field errors found while reading the request body.
	// They are reported only once the caller is known to own the log.
	Problems map[string]string `json:"-"`
}

// Validate reports decode problems first, then the struct rules.
func (in PatchDreamLogInput) Validate(v *validation.Validator) error {
	if len(in.Problems) > 0 {
		return &validation.Error{Message: "validation failed", Fields: in.Problems}
	}
	return v.Validate(in)
}

// Changes converts the input to repository changes.
func (in PatchDreamLogInput) Changes() model.DreamLogChanges {
	changes := model.DreamLogChanges{
		Title:       in.Title,
		TextContent: in.TextContent,
		IsPublic:    in.IsPublic,
		RatingSet:   in.RatingSet,
		TagsSet:     in.TagsSet,
	}
	if in.RatingSet && in.Rating != nil {
		r := model.Rating(*in.Rating)
		changes.Rating = &r
	}
	if in.TagsSet {
		changes.Tags = model.UniqueTagNames(in.Tags)
	}
	return changes
}

// DreamLogService handles dream log business logic.
type DreamLogService struct {
	repo     *repository.Repository
	validate *validation.Validator
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewDreamLogService creates a new DreamLogService.
func NewDreamLogService(repo *repository.Repository, v *validation.Validator, recorder metrics.Recorder) *DreamLogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if v == nil {
		v = validation.New()
	}
	return &DreamLogService{
		repo:     repo,
		validate: v,
		metrics:  recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns public logs plus the viewer's own. viewerID 0 is anonymous.
func (s *DreamLogService) List(ctx context.Context, viewerID int64) ([]*model.DreamLog, error) {
	return s.repo.ListDreamLogs(ctx, repository.DreamLogFilter{ViewerID: viewerID})
}

// Get returns a log the viewer is allowed to see. Private logs of other
// users are reported as missing.
func (s *DreamLogService) Get(ctx context.Context, viewerID, id int64) (*model.DreamLog, error) {
	log, err := s.repo.GetDreamLog(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDreamLogNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !log.IsVisibleTo(viewerID) {
		return nil, ErrNotFound
	}
	return log, nil
}

// Create stores a new log owned by ownerID along with its tags.
// Any user id carried by the request payload is never consulted.
func (s *DreamLogService) Create(ctx context.Context, ownerID int64, in CreateDreamLogInput) (*model.DreamLog, error) {
	if ownerID <= 0 {
		return nil, ErrUnauthenticated
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	now := s.now()
	log := &model.DreamLog{
		Title:       *in.Title,
		TextContent: *in.TextContent,
		IsPublic:    *in.IsPublic,
		PublishedAt: now,
		EditedAt:    now,
		UserID:      ownerID,
	}
	if in.Rating != nil {
		r := model.Rating(*in.Rating)
		log.Rating = &r
	}

	var created *model.DreamLog
	err := s.repo.InTx(ctx, func(q *repository.Queries) error {
		if err := q.CreateDreamLog(ctx, log); err != nil {
			return err
		}
		if err := replaceTags(ctx, q, log.ID, in.Tags); err != nil {
			return err
		}

		var err error
		created, err = q.GetDreamLog(ctx, log.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// The session outlived its account.
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to create dream log: %w", err)
	}

	s.metrics.IncDreamLogCreated()
	return created, nil
}

// Patch applies an allow-listed update on behalf of viewerID, who must own the log.
func (s *DreamLogService) Patch(ctx context.Context, viewerID, id int64, in PatchDreamLogInput) (*model.DreamLog, error) {
	if viewerID <= 0 {
		return nil, ErrUnauthenticated
	}

	var updated *model.DreamLog
	err := s.repo.InTx(ctx, func(q *repository.Queries) error {
		current, err := q.GetDreamLogForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsOwnedBy(viewerID) {
			return ErrForbidden
		}
		if err := in.Validate(s.validate); err != nil {
			return err
		}

		changes := in.Changes()
		if err := q.UpdateDreamLog(ctx, id, changes, s.now()); err != nil {
			return err
		}
		if changes.TagsSet {
			if err := q.DetachAllTags(ctx, id); err != nil {
				return err
			}
			if err := replaceTags(ctx, q, id, changes.Tags); err != nil {
				return err
			}
		}

		updated, err = q.GetDreamLog(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapDreamLogError(err)
	}

	s.metrics.IncDreamLogUpdated()
	return updated, nil
}

// Delete removes a log owned by viewerID.
func (s *DreamLogService) Delete(ctx context.Context, viewerID, id int64) error {
	if viewerID <= 0 {
		return ErrUnauthenticated
	}

	err := s.repo.InTx(ctx, func(q *repository.Queries) error {
		current, err := q.GetDreamLogForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsOwnedBy(viewerID) {
			return ErrForbidden
		}
		return q.DeleteDreamLog(ctx, id)
	})
	if err != nil {
		return s.mapDreamLogError(err)
	}

	s.metrics.IncDreamLogDeleted()
	return nil
}

func (s *DreamLogService) mapDreamLogError(err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr
	case errors.Is(err, repository.ErrDreamLogNotFound):
		return ErrNotFound
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	}
	return fmt.Errorf("dream log operation failed: %w", err)
}

// replaceTags resolves names to tags, creating missing ones, and attaches
// each to the log exactly once.
func replaceTags(ctx context.Context, q *repository.Queries, dreamLogID int64, names []string) error {
	names = model.UniqueTagNames(names)
	if len(names) == 0 {
		return nil
	}

	tags, err := q.EnsureTags(ctx, names)
	if err != nil {
		return err
	}

	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}
	return q.AttachTags(ctx, dreamLogID, ids)
}
