package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/dreamjournal/dreamjournal/internal/model"
)

// CreateTag inserts a tag and fills in its id.
func (q *Queries) CreateTag(ctx context.Context, tag *model.Tag) error {
	err := q.db.QueryRow(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id`, tag.Name).Scan(&tag.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagExists
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// ListTags returns every tag ordered by id.
func (q *Queries) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := q.db.Query(ctx, `SELECT id, name FROM tags ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return tags, nil
}

// EnsureTags resolves each name to a tag, creating the missing ones.
// Concurrent callers racing on the same new name converge on one row.
// The result follows the order of names; duplicates in names are collapsed.
func (q *Queries) EnsureTags(ctx context.Context, names []string) ([]model.Tag, error) {
	names = model.UniqueTagNames(names)
	if len(names) == 0 {
		return []model.Tag{}, nil
	}

	insert := `
		INSERT INTO tags (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := q.db.Exec(ctx, insert, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to insert tags: %w", err)
	}

	rows, err := q.db.Query(ctx, `SELECT id, name FROM tags WHERE name = ANY($1::text[])`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]model.Tag, len(names))
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		byName[tag.Name] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("tag %q missing after upsert", name)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ListTagsForDreamLogs returns the tags of each given dream log keyed by log id.
// Logs without tags are absent from the map.
func (q *Queries) ListTagsForDreamLogs(ctx context.Context, dreamLogIDs []int64) (map[int64][]model.Tag, error) {
	result := make(map[int64][]model.Tag, len(dreamLogIDs))
	if len(dreamLogIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("dt.dream_log_id", "t.id", "t.name").
		From("dream_tags dt").
		Join("tags t ON t.id = dt.tag_id").
		Where("dt.dream_log_id = ANY(?::bigint[])", pq.Array(dreamLogIDs)).
		OrderBy("dt.dream_log_id ASC", "t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dream log tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var logID int64
		var tag model.Tag
		if err := rows.Scan(&logID, &tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan dream log tag: %w", err)
		}
		result[logID] = append(result[logID], tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dream log tags: %w", err)
	}

	return result, nil
}
