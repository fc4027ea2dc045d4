package model

import "time"

type User struct {
	ID         string    `db:"id" json:"id"`
	CognitoSub string    `db:"cognito_sub" json:"cognito_sub"`
	Email      string    `db:"email" json:"email"`
	FullName   string    `db:"full_name" json:"full_name"`
	AvatarURL  string    `db:"avatar_url" json:"avatar_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
