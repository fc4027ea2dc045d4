package repository

import (
	"context"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category model.Category) (model.Category, error)
	Update(ctx context.Context, category model.Category) (model.Category, error)
	// Delete removes the category; dependent todos get category_id nulled
	// out by the gateway (ON DELETE SET NULL).
	Delete(ctx context.Context, userID, categoryID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Category, error)
}
