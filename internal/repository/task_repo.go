package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var taskOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "task_operations_total",
		Help: "Task storage operations by outcome",
	},
	[]string{"op", "outcome"},
)

func init() {
	prometheus.MustRegister(taskOps)
}

// TaskRepository is the storage accessor: one statement per call, no
// multi-statement transactions, no retries.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns all tasks newest first. The id tie-break keeps two tasks
// created in the same millisecond in creation order.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, is_completed, created_at FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, r.fail("list", err)
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		var t domain.Task
		var completed int64
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Description, &completed, &createdAt); err != nil {
			return nil, r.fail("list", err)
		}
		t.IsCompleted = completed != 0
		t.CreatedAt = unixMillisToTime(createdAt)
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail("list", err)
	}
	r.ok("list")
	return res, nil
}

// Create inserts a new task. The description is validated before any
// statement runs.
func (r *TaskRepository) Create(ctx context.Context, description string) (domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		taskOps.WithLabelValues("create", "invalid").Inc()
		return domain.Task{}, ErrEmptyDescription
	}

	// Truncate to the stored millisecond precision so the returned task
	// equals what a later Get reads back.
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (description, is_completed, created_at) VALUES (?, 0, ?)`,
		description, timeToUnixMillis(createdAt))
	if err != nil {
		return domain.Task{}, r.fail("create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, r.fail("create", err)
	}

	r.ok("create")
	logger.Info("added task", "id", id, "description", description)
	return domain.Task{ID: id, Description: description, CreatedAt: createdAt}, nil
}

// Get returns the task with the given id or ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, id int64) (domain.Task, error) {
	var t domain.Task
	var completed int64
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, is_completed, created_at FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Description, &completed, &createdAt)
	if err == sql.ErrNoRows {
		taskOps.WithLabelValues("get", "not_found").Inc()
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, r.fail("get", err)
	}
	t.IsCompleted = completed != 0
	t.CreatedAt = unixMillisToTime(createdAt)
	r.ok("get")
	return t, nil
}

// Update overwrites the description of an existing task.
func (r *TaskRepository) Update(ctx context.Context, id int64, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		taskOps.WithLabelValues("update", "invalid").Inc()
		return ErrEmptyDescription
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return r.fail("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail("update", err)
	}
	if n == 0 {
		taskOps.WithLabelValues("update", "not_found").Inc()
		return ErrNotFound
	}

	r.ok("update")
	logger.Info("updated task", "id", id, "description", description)
	return nil
}

// Delete removes the task physically.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return r.fail("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail("delete", err)
	}
	if n == 0 {
		taskOps.WithLabelValues("delete", "not_found").Inc()
		return ErrNotFound
	}

	r.ok("delete")
	logger.Info("deleted task", "id", id)
	return nil
}

// SetCompleted sets the completion flag. Completing an already completed
// task is a no-op that still reports success.
func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_completed = ? WHERE id = ?`, boolToInt(completed), id)
	if err != nil {
		return r.fail("complete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.fail("complete", err)
	}
	if n == 0 {
		taskOps.WithLabelValues("complete", "not_found").Inc()
		return ErrNotFound
	}

	r.ok("complete")
	logger.Info("set task completion", "id", id, "completed", completed)
	return nil
}

func (r *TaskRepository) ok(op string) {
	taskOps.WithLabelValues(op, "ok").Inc()
	logger.Debug("task storage operation ok", "op", op)
}

func (r *TaskRepository) fail(op string, err error) error {
	taskOps.WithLabelValues(op, "error").Inc()
	logger.Error("task storage operation failed", "op", op, "error", err)
	return storageErr(op, err)
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
