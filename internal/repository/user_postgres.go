package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sjyoon/taskhub-api/internal/model"
)

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUser(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, cognito_sub, email, full_name, avatar_url, created_at, updated_at`

func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, cognitoSub, email, fullName string) (model.User, error) {
	query := `
		INSERT INTO users (id, cognito_sub, email, full_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cognito_sub) DO UPDATE SET email = EXCLUDED.email
		RETURNING ` + userColumns

	var user model.User
	err := r.db.GetContext(ctx, &user, query, uuid.NewString(), cognitoSub, email, fullName)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get or create user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE cognito_sub = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, cognitoSub); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `
		UPDATE users
		SET full_name = $1, avatar_url = $2, updated_at = now()
		WHERE id = $3
		RETURNING ` + userColumns

	var updated model.User
	err := r.db.GetContext(ctx, &updated, query, user.FullName, user.AvatarURL, user.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
