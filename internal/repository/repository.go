package repository

import (
	"context"
	"database/sql"

	"taskhub/internal/models"
)

type Users interface {
	Create(name, email, passwordHash string) (int, error)
	GetByEmail(email string) (*models.User, error)
}

// Tasks is scoped by owner on every read/write: a task id that exists
// but belongs to another user behaves exactly like a missing one.
type Tasks interface {
	Create(ctx context.Context, t models.Task) error
	GetByOwner(ctx context.Context, id string, userID int) (*models.Task, error)
	ListByOwner(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) error
	DeleteByOwner(ctx context.Context, id string, userID int) (bool, error)
}

type Repository struct {
	Users Users
	Tasks Tasks
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Tasks: NewTaskRepository(db),
	}
}
