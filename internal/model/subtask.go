package model

import "time"

// Subtask belongs to exactly one todo and is deleted with it.
type Subtask struct {
	ID         string    `db:"id" json:"id"`
	TodoID     string    `db:"todo_id" json:"todo_id"`
	Title      string    `db:"title" json:"title"`
	Completed  bool      `db:"completed" json:"completed"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
