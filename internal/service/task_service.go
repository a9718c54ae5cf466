package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repository"

	"github.com/google/uuid"
)

// Validation and lookup errors surfaced to the HTTP layer.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid status: must be pending, inProgress, or completed")
	ErrInvalidPriority = errors.New("invalid priority: must be low, medium, or high")
	// ErrTaskNotFound also covers tasks owned by another user, so a
	// caller can't distinguish "doesn't exist" from "not yours".
	ErrTaskNotFound = errors.New("task not found")
)

type TaskService struct {
	tasks       repository.Tasks
	broadcaster Broadcaster
}

func NewTaskService(tasks repository.Tasks, broadcaster Broadcaster) *TaskService {
	return &TaskService{tasks: tasks, broadcaster: broadcaster}
}

// Create validates the params, persists the task with the caller as
// owner and broadcasts the created record.
func (s *TaskService) Create(ctx context.Context, userID int, p CreateTaskParams) (models.Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return models.Task{}, ErrTitleRequired
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	} else if !models.ValidPriority(priority) {
		return models.Task{}, ErrInvalidPriority
	}

	now := time.Now().UTC()
	t := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     p.DueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return models.Task{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.TaskCreated(t)
	}
	return t, nil
}

// List returns the caller's tasks, newest-created first.
func (s *TaskService) List(ctx context.Context, userID int) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, userID)
}

// Update applies only the fields present in p (partial update). A nil
// field leaves the stored value untouched; ClearDueDate removes the
// due date. Broadcasts the updated record on success.
func (s *TaskService) Update(ctx context.Context, userID int, taskID string, p UpdateTaskParams) (models.Task, error) {
	t, err := s.tasks.GetByOwner(ctx, taskID, userID)
	if err != nil {
		return models.Task{}, err
	}
	if t == nil {
		return models.Task{}, ErrTaskNotFound
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return models.Task{}, ErrTitleRequired
		}
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return models.Task{}, ErrInvalidStatus
		}
		t.Status = *p.Status
	}
	if p.Priority != nil {
		if !models.ValidPriority(*p.Priority) {
			return models.Task{}, ErrInvalidPriority
		}
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = p.DueDate
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, *t); err != nil {
		return models.Task{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.TaskUpdated(*t)
	}
	return *t, nil
}

// Delete removes the task under the same ownership rule and
// broadcasts the deleted task's identifier.
func (s *TaskService) Delete(ctx context.Context, userID int, taskID string) error {
	deleted, err := s.tasks.DeleteByOwner(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}

	if s.broadcaster != nil {
		s.broadcaster.TaskDeleted(taskID)
	}
	return nil
}
