package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

var dreamLogColumns = []string{
	"d.id",
	"d.title",
	"d.text_content",
	"d.is_public",
	"d.rating",
	"d.published_at",
	"d.edited_at",
	"d.user_id",
	"u.username",
}

// DreamLogFilter narrows ListDreamLogs.
type DreamLogFilter struct {
	// ViewerID sees public logs plus their own. Zero means public only.
	ViewerID int64
}

func selectDreamLogs() squirrel.SelectBuilder {
	return psql.Select(dreamLogColumns...).
		From("dream_logs d").
		Join("users u ON u.id = d.user_id")
}

// CreateDreamLog inserts a dream log and fills in its id.
func (q *Queries) CreateDreamLog(ctx context.Context, log *model.DreamLog) error {
	query, args, err := psql.Insert("dream_logs").
		Columns("title", "text_content", "is_public", "rating", "published_at", "edited_at", "user_id").
		Values(log.Title, log.TextContent, log.IsPublic, ratingValue(log.Rating), log.PublishedAt, log.EditedAt, log.UserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if err := q.db.QueryRow(ctx, query, args...).Scan(&log.ID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create dream log: %w", err)
	}

	return nil
}

// GetDreamLog retrieves a dream log with its owner and tags.
func (q *Queries) GetDreamLog(ctx context.Context, id int64) (*model.DreamLog, error) {
	return q.getDreamLog(ctx, id, false)
}

// GetDreamLogForUpdate is GetDreamLog with a row lock held until the
// surrounding transaction ends. Only meaningful inside InTx.
func (q *Queries) GetDreamLogForUpdate(ctx context.Context, id int64) (*model.DreamLog, error) {
	return q.getDreamLog(ctx, id, true)
}

func (q *Queries) getDreamLog(ctx context.Context, id int64, lock bool) (*model.DreamLog, error) {
	sb := selectDreamLogs().Where(squirrel.Eq{"d.id": id})
	if lock {
		sb = sb.Suffix("FOR UPDATE OF d")
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	log, err := scanDreamLog(q.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDreamLogNotFound
		}
		return nil, fmt.Errorf("failed to get dream log: %w", err)
	}

	tags, err := q.ListTagsForDreamLogs(ctx, []int64{log.ID})
	if err != nil {
		return nil, err
	}
	log.Tags = nonNilTags(tags[log.ID])

	return log, nil
}

// ListDreamLogs returns dream logs newest first, each with owner and tags.
func (q *Queries) ListDreamLogs(ctx context.Context, filter DreamLogFilter) ([]*model.DreamLog, error) {
	sb := selectDreamLogs()

	if filter.ViewerID > 0 {
		sb = sb.Where(squirrel.Or{
			squirrel.Eq{"d.is_public": true},
			squirrel.Eq{"d.user_id": filter.ViewerID},
		})
	} else {
		sb = sb.Where(squirrel.Eq{"d.is_public": true})
	}

	query, args, err := sb.OrderBy("d.published_at DESC", "d.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dream logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*model.DreamLog, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		log, err := scanDreamLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dream log: %w", err)
		}
		logs = append(logs, log)
		ids = append(ids, log.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dream logs: %w", err)
	}

	tags, err := q.ListTagsForDreamLogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, log := range logs {
		log.Tags = nonNilTags(tags[log.ID])
	}

	return logs, nil
}

// UpdateDreamLog applies the scalar columns of changes and stamps edited_at.
// Tag changes are handled by the caller through DetachAllTags/AttachTags.
func (q *Queries) UpdateDreamLog(ctx context.Context, id int64, changes model.DreamLogChanges, editedAt time.Time) error {
	query, args, err := buildDreamLogUpdate(id, changes, editedAt)
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update dream log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDreamLogNotFound
	}

	return nil
}

// buildDreamLogUpdate only ever sets allow-listed columns; user_id and
// published_at are immutable.
func buildDreamLogUpdate(id int64, changes model.DreamLogChanges, editedAt time.Time) (string, []any, error) {
	ub := psql.Update("dream_logs").
		Set("edited_at", editedAt).
		Where(squirrel.Eq{"id": id})

	if changes.Title != nil {
		ub = ub.Set("title", *changes.Title)
	}
	if changes.TextContent != nil {
		ub = ub.Set("text_content", *changes.TextContent)
	}
	if changes.IsPublic != nil {
		ub = ub.Set("is_public", *changes.IsPublic)
	}
	if changes.RatingSet {
		ub = ub.Set("rating", ratingValue(changes.Rating))
	}

	return ub.ToSql()
}

// DeleteDreamLog removes a dream log and, by cascade, its associations.
func (q *Queries) DeleteDreamLog(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM dream_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dream log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDreamLogNotFound
	}
	return nil
}

func scanDreamLog(row pgx.Row) (*model.DreamLog, error) {
	var log model.DreamLog
	var rating *string

	err := row.Scan(
		&log.ID,
		&log.Title,
		&log.TextContent,
		&log.IsPublic,
		&rating,
		&log.PublishedAt,
		&log.EditedAt,
		&log.UserID,
		&log.Owner.Username,
	)
	if err != nil {
		return nil, err
	}

	log.Owner.ID = log.UserID
	if rating != nil {
		r := model.Rating(*rating)
		log.Rating = &r
	}

	return &log, nil
}

// ratingValue maps an absent rating to SQL NULL.
func ratingValue(r *model.Rating) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func nonNilTags(tags []model.Tag) []model.Tag {
	if tags == nil {
		return []model.Tag{}
	}
	return tags
}
