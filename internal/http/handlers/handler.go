package handlers

import (
	"database/sql"

	"task_tracker/internal/repository"
)

type Handler struct {
	DB    *sql.DB
	Tasks *repository.TaskRepository
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{
		DB:    db,
		Tasks: repository.NewTaskRepository(db),
	}
}
