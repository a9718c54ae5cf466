package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errCreateTask = "failed to create task"
	errListTasks  = "failed to load tasks"
	errUpdateTask = "failed to update task"
	errDeleteTask = "failed to delete task"

	layoutDate = "2006-01-02"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for creating a task.
type createTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority,omitempty"` // low | medium | high
}

// Request DTO for partial updates. Raw dueDate keeps the null/absent
// distinction: absent leaves the date untouched, null/"" clears it.
type updateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	DueDate     json.RawMessage `json:"dueDate"`
	Priority    *string         `json:"priority"`
}

// jsonNull is the raw token carried by an explicit null field.
var jsonNull = []byte("null")

// parseDueDate accepts RFC3339 or a bare date.
func parseDueDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q, expected RFC3339 (e.g. 2025-08-27T15:04:05Z) or 'YYYY-MM-DD'", s)
}

// mapTaskError translates service errors to HTTP responses.
func (h *Handler) mapTaskError(c *gin.Context, err error, fallbackMsg, logKey string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTaskNotFound.Error()})
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, fallbackMsg, logKey, err)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List own tasks
// @Description  Returns the caller's tasks, newest-created first.
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.services.Tasks.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListTasks, "tasks_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body   createTaskRequest  true  "Task payload"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	params := service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		params.DueDate = &due
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), currentUserID(c), params)
	if err != nil {
		h.mapTaskError(c, err, errCreateTask, "task_create_failed")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// @Summary      Update task
// @Description  Partial update: only supplied fields are applied. dueDate set to null or "" clears it.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path   string             true  "Task ID"
// @Param        body  body   updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	params := service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if len(req.DueDate) > 0 {
		var s string
		switch {
		case bytes.Equal(req.DueDate, jsonNull):
			params.ClearDueDate = true
		case json.Unmarshal(req.DueDate, &s) != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be a string or null"})
			return
		case s == "":
			params.ClearDueDate = true
		default:
			due, err := parseDueDate(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			params.DueDate = &due
		}
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), currentUserID(c), c.Param("id"), params)
	if err != nil {
		h.mapTaskError(c, err, errUpdateTask, "task_update_failed")
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.services.Tasks.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.mapTaskError(c, err, errDeleteTask, "task_delete_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
