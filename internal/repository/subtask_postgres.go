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

type PostgresSubtaskRepository struct {
	db *sqlx.DB
}

func NewPostgresSubtask(db *sqlx.DB) *PostgresSubtaskRepository {
	return &PostgresSubtaskRepository{db: db}
}

func (r *PostgresSubtaskRepository) Create(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error) {
	if subtask.ID == "" {
		subtask.ID = uuid.NewString()
	}

	// The SELECT enforces that the parent todo belongs to the user; no
	// matching todo means no row inserted and sql.ErrNoRows surfaces.
	query := `
		INSERT INTO subtasks (id, todo_id, title, order_index)
		SELECT $1, t.id, $3, $4
		FROM todos t
		WHERE t.id = $2 AND t.user_id = $5
		RETURNING id, todo_id, title, completed, order_index, created_at`

	var created model.Subtask
	err := r.db.GetContext(ctx, &created, query,
		subtask.ID, subtask.TodoID, subtask.Title, subtask.OrderIndex, userID,
	)
	if err != nil {
		return model.Subtask{}, fmt.Errorf("failed to create subtask: %w", err)
	}
	return created, nil
}

func (r *PostgresSubtaskRepository) Update(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error) {
	query := `
		UPDATE subtasks s
		SET title = $1, completed = $2
		FROM todos t
		WHERE s.id = $3 AND s.todo_id = t.id AND t.user_id = $4
		RETURNING s.id, s.todo_id, s.title, s.completed, s.order_index, s.created_at`

	var updated model.Subtask
	err := r.db.GetContext(ctx, &updated, query,
		subtask.Title, subtask.Completed, subtask.ID, userID,
	)
	if err != nil {
		return model.Subtask{}, fmt.Errorf("failed to update subtask: %w", err)
	}
	return updated, nil
}

func (r *PostgresSubtaskRepository) Delete(ctx context.Context, userID, subtaskID string) error {
	query := `
		DELETE FROM subtasks s
		USING todos t
		WHERE s.id = $1 AND s.todo_id = t.id AND t.user_id = $2`

	result, err := r.db.ExecContext(ctx, query, subtaskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
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

func (r *PostgresSubtaskRepository) ListByTodoIDs(ctx context.Context, todoIDs []string) ([]model.Subtask, error) {
	if len(todoIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, todo_id, title, completed, order_index, created_at
		FROM subtasks
		WHERE todo_id = ANY($1::uuid[])
		ORDER BY todo_id, order_index ASC`

	var subtasks []model.Subtask
	if err := r.db.SelectContext(ctx, &subtasks, query, pq.Array(todoIDs)); err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

var _ SubtaskRepository = (*PostgresSubtaskRepository)(nil)
