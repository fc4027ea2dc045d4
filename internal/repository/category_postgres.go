package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type PostgresCategoryRepository struct {
	db *sqlx.DB
}

func NewPostgresCategory(db *sqlx.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category model.Category) (model.Category, error) {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	query := `
		INSERT INTO categories (id, user_id, name, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, color, icon, created_at`

	var created model.Category
	err := r.db.GetContext(ctx, &created, query,
		category.ID, category.UserID, category.Name, category.Color, category.Icon,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category model.Category) (model.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, color = $2, icon = $3
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, name, color, icon, created_at`

	var updated model.Category
	err := r.db.GetContext(ctx, &updated, query,
		category.Name, category.Color, category.Icon, category.ID, category.UserID,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	return updated, nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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

func (r *PostgresCategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	query := `
		SELECT id, user_id, name, color, icon, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var categories []model.Category
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

var _ CategoryRepository = (*PostgresCategoryRepository)(nil)
