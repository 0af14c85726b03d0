package dto

import (
	"time"

	"team-task-manager/backend/internal/models"
)

// TaskDTO represents a task in API responses, annotated with the assignee
// and creator display names.
type TaskDTO struct {
	ID                 uint64            `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Status             models.TaskStatus `json:"status"`
	TeamID             uint64            `json:"team_id"`
	AssignedToUserID   *uint64           `json:"assigned_to_user_id"`
	AssignedToUsername string            `json:"assigned_to_username,omitempty"`
	DueDate            *time.Time        `json:"due_date"`
	CreatedByUserID    *uint64           `json:"created_by_user_id"`
	CreatedByUsername  string            `json:"created_by_username,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ToTaskDTO converts a task (with Creator and Assignee preloaded) to its
// response shape.
func ToTaskDTO(task models.Task) TaskDTO {
	d := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		TeamID:           task.TeamID,
		AssignedToUserID: task.AssignedToUserID,
		DueDate:          task.DueDate,
		CreatedByUserID:  task.CreatedByUserID,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
	if task.Assignee != nil {
		d.AssignedToUsername = task.Assignee.Username
	}
	if task.Creator != nil {
		d.CreatedByUsername = task.Creator.Username
	}
	return d
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
