package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskhub/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository { return &TaskRepository{db: db} }

var _ Tasks = (*TaskRepository)(nil)

const (
	insertTaskSQL = `
		INSERT INTO tasks (id, title, description, status, priority, due_date, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectTaskByOwnerSQL = `
		SELECT id, title, description, status, priority, due_date, user_id, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?
	`

	selectTasksByOwnerSQL = `
		SELECT id, title, description, status, priority, due_date, user_id, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC
	`

	updateTaskSQL = `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	deleteTaskByOwnerSQL = `DELETE FROM tasks WHERE id = ? AND user_id = ?`
)

// nullableTime converts an optional due date for storage.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// Create inserts a new task row. Timestamps are set if zero.
func (r *TaskRepository) Create(ctx context.Context, t models.Task) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.ID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		nullableTime(t.DueDate),
		t.UserID,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert task %q: %w", t.ID, err)
	}
	return nil
}

// GetByOwner fetches a task by id, filtered by owning user.
// Returns (nil, nil) when the task is missing or owned by someone else.
func (r *TaskRepository) GetByOwner(ctx context.Context, id string, userID int) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, selectTaskByOwnerSQL, id, userID)
	t, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %q: %w", id, err)
	}
	return t, nil
}

// ListByOwner returns the user's tasks, newest-created first.
func (r *TaskRepository) ListByOwner(ctx context.Context, userID int) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTasksByOwnerSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select tasks for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields of an existing row, still owner-filtered.
func (r *TaskRepository) Update(ctx context.Context, t models.Task) error {
	_, err := r.db.ExecContext(ctx, updateTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		nullableTime(t.DueDate),
		time.Now().UTC(),
		t.ID,
		t.UserID,
	)
	if err != nil {
		return fmt.Errorf("update task %q: %w", t.ID, err)
	}
	return nil
}

// DeleteByOwner removes the task and reports whether a row was deleted.
func (r *TaskRepository) DeleteByOwner(ctx context.Context, id string, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTaskByOwnerSQL, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for task %q: %w", id, err)
	}
	return n > 0, nil
}

// scanTask reads one task row via the provided Scan function.
func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	var t models.Task
	var due sql.NullTime
	if err := scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&due,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
