package repository

import (
	"context"

	"github.com/sjyoon/taskhub-api/internal/model"
)

// SubtaskRepository scopes every operation to the owning user through the
// parent todo; subtasks carry no owner id of their own.
type SubtaskRepository interface {
	Create(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error)
	Update(ctx context.Context, userID string, subtask model.Subtask) (model.Subtask, error)
	Delete(ctx context.Context, userID, subtaskID string) error
	// ListByTodoIDs returns the subtasks of every listed todo, ordered by
	// order_index ascending within each parent.
	ListByTodoIDs(ctx context.Context, todoIDs []string) ([]model.Subtask, error)
}
