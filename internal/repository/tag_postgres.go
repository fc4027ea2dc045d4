package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type PostgresTagRepository struct {
	db *sqlx.DB
}

func NewPostgresTag(db *sqlx.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

func (r *PostgresTagRepository) Create(ctx context.Context, tag model.Tag) (model.Tag, error) {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tags (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, color, created_at`

	var created model.Tag
	err := r.db.GetContext(ctx, &created, query, tag.ID, tag.UserID, tag.Name, tag.Color)
	if err != nil {
		return model.Tag{}, fmt.Errorf("failed to create tag: %w", err)
	}
	return created, nil
}

func (r *PostgresTagRepository) Delete(ctx context.Context, userID, tagID string) error {
	// todo_tags rows go with it (ON DELETE CASCADE).
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`, tagID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresTagRepository) ListByUser(ctx context.Context, userID string) ([]model.Tag, error) {
	query := `
		SELECT id, user_id, name, color, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var tags []model.Tag
	if err := r.db.SelectContext(ctx, &tags, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *PostgresTagRepository) ListByTodoIDs(ctx context.Context, todoIDs []string) ([]TodoTag, error) {
	if len(todoIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT tt.todo_id, t.id, t.user_id, t.name, t.color, t.created_at
		FROM todo_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.todo_id = ANY($1::uuid[])
		ORDER BY t.created_at ASC`

	var rows []TodoTag
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(todoIDs)); err != nil {
		return nil, fmt.Errorf("failed to list todo tags: %w", err)
	}
	return rows, nil
}

func (r *PostgresTagRepository) AddToTodo(ctx context.Context, todoID, tagID string) error {
	query := `
		INSERT INTO todo_tags (todo_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, todoID, tagID); err != nil {
		return fmt.Errorf("failed to add tag to todo: %w", err)
	}
	return nil
}

func (r *PostgresTagRepository) RemoveFromTodo(ctx context.Context, todoID, tagID string) error {
	query := `DELETE FROM todo_tags WHERE todo_id = $1 AND tag_id = $2`

	if _, err := r.db.ExecContext(ctx, query, todoID, tagID); err != nil {
		return fmt.Errorf("failed to remove tag from todo: %w", err)
	}
	return nil
}

var _ TagRepository = (*PostgresTagRepository)(nil)
