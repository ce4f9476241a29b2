package domain

import "time"

type Task struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	IsCompleted bool      `db:"is_completed"`
	CreatedAt   time.Time `db:"created_at"`
}
