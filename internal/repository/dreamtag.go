package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// CreateDreamTag inserts an association and fills in its id.
// Missing dream logs or tags surface as ErrInvalidReference.
func (q *Queries) CreateDreamTag(ctx context.Context, dt *model.DreamTag) error {
	query := `
		INSERT INTO dream_tags (dream_log_id, tag_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := q.db.QueryRow(ctx, query, dt.DreamLogID, dt.TagID).Scan(&dt.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDreamTagExists
		case isForeignKeyViolation(err):
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to create dream tag: %w", err)
	}

	return nil
}

// GetDreamTag retrieves an association by id.
func (q *Queries) GetDreamTag(ctx context.Context, id int64) (*model.DreamTag, error) {
	var dt model.DreamTag
	err := q.db.QueryRow(ctx,
		`SELECT id, dream_log_id, tag_id FROM dream_tags WHERE id = $1`, id,
	).Scan(&dt.ID, &dt.DreamLogID, &dt.TagID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDreamTagNotFound
		}
		return nil, fmt.Errorf("failed to get dream tag: %w", err)
	}
	return &dt, nil
}

// ListDreamTags returns every association ordered by id.
func (q *Queries) ListDreamTags(ctx context.Context) ([]model.DreamTag, error) {
	rows, err := q.db.Query(ctx, `SELECT id, dream_log_id, tag_id FROM dream_tags ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dream tags: %w", err)
	}
	defer rows.Close()

	dts := make([]model.DreamTag, 0)
	for rows.Next() {
		var dt model.DreamTag
		if err := rows.Scan(&dt.ID, &dt.DreamLogID, &dt.TagID); err != nil {
			return nil, fmt.Errorf("failed to scan dream tag: %w", err)
		}
		dts = append(dts, dt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dream tags: %w", err)
	}

	return dts, nil
}

// DeleteDreamTag removes one association. The log and tag are untouched.
func (q *Queries) DeleteDreamTag(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM dream_tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dream tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDreamTagNotFound
	}
	return nil
}

// AttachTags associates tags with a dream log, skipping pairs that already exist.
func (q *Queries) AttachTags(ctx context.Context, dreamLogID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO dream_tags (dream_log_id, tag_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT (dream_log_id, tag_id) DO NOTHING
	`
	if _, err := q.db.Exec(ctx, query, dreamLogID, pq.Array(tagIDs)); err != nil {
		if isForeignKeyViolation(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("failed to attach tags: %w", err)
	}
	return nil
}

// DetachAllTags removes every association of a dream log.
func (q *Queries) DetachAllTags(ctx context.Context, dreamLogID int64) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM dream_tags WHERE dream_log_id = $1`, dreamLogID); err != nil {
		return fmt.Errorf("failed to detach tags: %w", err)
	}
	return nil
}
