package repository

import (
	"context"

	"github.com/sjyoon/taskhub-api/internal/model"
)

// TodoTag is one row of the tag join resolved to its tag record.
type TodoTag struct {
	TodoID string `db:"todo_id"`
	model.Tag
}

type TagRepository interface {
	Create(ctx context.Context, tag model.Tag) (model.Tag, error)
	Delete(ctx context.Context, userID, tagID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Tag, error)
	// ListByTodoIDs resolves the todo_tags join for every listed todo.
	ListByTodoIDs(ctx context.Context, todoIDs []string) ([]TodoTag, error)
	AddToTodo(ctx context.Context, todoID, tagID string) error
	RemoveFromTodo(ctx context.Context, todoID, tagID string) error
}
