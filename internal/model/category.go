package model

import "time"

// Category is user-owned. Todos reference it weakly; deleting a category
// nulls out category_id on its todos (gateway SET NULL policy).
type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Icon      string    `db:"icon" json:"icon"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
