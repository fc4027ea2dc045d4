package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type PostgresTodoRepository struct {
	db *sqlx.DB
}

func NewPostgresTodo(db *sqlx.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

const todoColumns = `id, user_id, category_id, title, description, completed,
	priority, due_date, order_index, created_at, updated_at, completed_at`

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}

	query := `
		INSERT INTO todos (id, user_id, category_id, title, description, priority, due_date, order_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + todoColumns

	var created model.Todo
	err := r.db.GetContext(ctx, &created, query,
		todo.ID, todo.UserID, todo.CategoryID, todo.Title, todo.Description,
		todo.Priority, todo.DueDate, todo.OrderIndex,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return created, nil
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, userID, todoID string) (model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	var todo model.Todo
	if err := r.db.GetContext(ctx, &todo, query, todoID, userID); err != nil {
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func (r *PostgresTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		UPDATE todos
		SET category_id = $1, title = $2, description = $3, priority = $4,
			due_date = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + todoColumns

	var updated model.Todo
	err := r.db.GetContext(ctx, &updated, query,
		todo.CategoryID, todo.Title, todo.Description, todo.Priority,
		todo.DueDate, todo.ID, todo.UserID,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return updated, nil
}

func (r *PostgresTodoRepository) SetCompleted(ctx context.Context, userID, todoID string, completed bool, completedAt *time.Time) (model.Todo, error) {
	query := `
		UPDATE todos
		SET completed = $1, completed_at = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + todoColumns

	var updated model.Todo
	err := r.db.GetContext(ctx, &updated, query, completed, completedAt, todoID, userID)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to set todo completed: %w", err)
	}
	return updated, nil
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
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

func (r *PostgresTodoRepository) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY order_index ASC, created_at DESC`

	var todos []model.Todo
	if err := r.db.SelectContext(ctx, &todos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

func (r *PostgresTodoRepository) Reorder(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	indices := make([]int, len(ids))
	for i := range ids {
		indices[i] = i
	}

	// One statement for the whole batch; updated_at is left alone because a
	// reorder is not an edit of the todo's content.
	query := `
		UPDATE todos
		SET order_index = u.ord
		FROM (SELECT unnest($1::uuid[]) AS id, unnest($2::int[]) AS ord) AS u
		WHERE todos.id = u.id AND todos.user_id = $3`

	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids), pq.Array(indices), userID); err != nil {
		return fmt.Errorf("failed to reorder todos: %w", err)
	}
	return nil
}

var _ TodoRepository = (*PostgresTodoRepository)(nil)
