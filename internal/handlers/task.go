package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"team-task-manager/backend/internal/dto"
	apierrors "team-task-manager/backend/internal/errors"
	"team-task-manager/backend/internal/middleware"
	"team-task-manager/backend/internal/models"
	"team-task-manager/backend/internal/services"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in one of the caller's teams.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title            string     `json:"title" binding:"required"`
		Description      string     `json:"description"`
		TeamID           uint64     `json:"team_id" binding:"required"`
		AssignedToUserID *uint64    `json:"assigned_to_user_id"`
		DueDate          *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		TeamID:           req.TeamID,
		AssignedToUserID: req.AssignedToUserID,
		DueDate:          req.DueDate,
		CreatorID:        userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns tasks from the caller's teams, narrowed by the
// optional team_id, assigned_to, and status query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var filter services.TaskListFilter

	if v := c.Query("team_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		filter.TeamID = &id
	}
	if v := c.Query("assigned_to"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		filter.AssignedToUserID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		filter.Status = &status
	}

	tasks, err := h.taskService.List(userID, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns one task. Tasks in foreign teams come back 404, the
// same as tasks that do not exist.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask edits a task. The body is parsed as a raw document so an
// explicit null (unassign, clear due date) can be told apart from a field
// that was not sent at all.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if v, present := raw["title"]; present {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "title must be a string")
			return
		}
		input.Title = s
		input.TitleSet = true
	}
	if v, present := raw["description"]; present {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "description must be a string")
			return
		}
		input.Description = s
		input.DescriptionSet = true
	}
	if v, present := raw["status"]; present {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "status must be a string")
			return
		}
		input.Status = s
		input.StatusSet = true
	}
	if v, present := raw["assigned_to_user_id"]; present {
		input.AssignedToSet = true
		if v != nil {
			n, ok := v.(float64)
			if !ok || n < 0 {
				apierrors.BadRequest(c, "assigned_to_user_id must be a user ID or null")
				return
			}
			id := uint64(n)
			input.AssignedToUserID = &id
		}
	}
	if v, present := raw["due_date"]; present {
		input.DueDateSet = true
		if v != nil {
			s, ok := v.(string)
			if !ok {
				apierrors.BadRequest(c, "due_date must be an RFC 3339 timestamp or null")
				return
			}
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "due_date must be an RFC 3339 timestamp or null")
				return
			}
			input.DueDate = &parsed
		}
	}

	task, err := h.taskService.Update(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task. Creator or team admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrAssigneeNotMember),
		errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrTaskDeleteForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("task handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
