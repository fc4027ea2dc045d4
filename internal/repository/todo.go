package repository

import (
	"context"
	"time"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetByID(ctx context.Context, userID, todoID string) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo) (model.Todo, error)
	// SetCompleted flips the completed flag and completed_at in a single write.
	SetCompleted(ctx context.Context, userID, todoID string, completed bool, completedAt *time.Time) (model.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
	// ListByUser returns all todos ordered by order_index ascending,
	// created_at descending as tiebreak.
	ListByUser(ctx context.Context, userID string) ([]model.Todo, error)
	// Reorder persists position-based order indices for the given ids in one
	// bulk statement: ids[i] receives order_index i.
	Reorder(ctx context.Context, userID string, ids []string) error
}
