package service

import (
	"context"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type Authorization interface {
	SignUp(name, email, password string) (int, error)
	SignIn(email, password string) (string, models.PublicUser, error)
	ParseToken(accessToken string) (TokenClaims, error)
}

// Tasks exposes per-user CRUD over to-do items.
type Tasks interface {
	Create(ctx context.Context, userID int, p CreateTaskParams) (models.Task, error)
	List(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, userID int, taskID string, p UpdateTaskParams) (models.Task, error)
	Delete(ctx context.Context, userID int, taskID string) error
}

// Broadcaster delivers task mutation events to every connected push
// channel client. Delivery is fire-and-forget: failures never roll
// back the persistence operation that triggered them.
type Broadcaster interface {
	TaskCreated(t models.Task)
	TaskUpdated(t models.Task)
	TaskDeleted(taskID string)
}

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	UserID int
	Name   string
}

// CreateTaskParams carries the fields accepted at task creation.
// Zero Status/Priority get the model defaults.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskParams carries a partial update: nil fields are left
// untouched. ClearDueDate wins over DueDate and removes the date.
type UpdateTaskParams struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Tasks
}

// NewService wires the repository layer and the push broadcaster into
// concrete services.
func NewService(repos *repository.Repository, broadcaster Broadcaster) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users),
		Tasks:         NewTaskService(repos.Tasks, broadcaster),
	}
}
