package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
	"team-task-manager/backend/internal/repository"
)

var (
	ErrTaskTitleRequired   = errors.New("task title is required")
	ErrTaskNotFound        = errors.New("task not found")
	ErrAssigneeNotMember   = errors.New("assigned user is not a member of this team")
	ErrInvalidTaskStatus   = errors.New("status must be pending, in-progress, or completed")
	ErrTaskDeleteForbidden = errors.New("only the task creator or a team admin can delete this task")
)

// TaskService provides task lifecycle operations scoped to teams.
// Membership checks are delegated to the MembershipService; tasks in teams
// the acting user does not belong to are reported as not found, so their
// existence never leaks to outsiders.
type TaskService struct {
	taskRepo   repository.TaskRepository
	membership *MembershipService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, membership *MembershipService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		membership: membership,
	}
}

// CreateTaskInput represents parameters to create a new task.
type CreateTaskInput struct {
	Title            string
	Description      string
	TeamID           uint64
	AssignedToUserID *uint64
	DueDate          *time.Time
	CreatorID        uint64
}

// Create creates a task in a team the acting user belongs to. If an
// assignee is given they must currently be a member of the same team.
// Status always starts out pending.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	isMember, err := s.membership.IsMember(input.CreatorID, input.TeamID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotTeamMember
	}

	if input.AssignedToUserID != nil {
		assigneeIsMember, err := s.membership.IsMember(*input.AssignedToUserID, input.TeamID)
		if err != nil {
			return nil, err
		}
		if !assigneeIsMember {
			return nil, ErrAssigneeNotMember
		}
	}

	task := &models.Task{
		Title:            input.Title,
		Description:      input.Description,
		Status:           models.TaskStatusPending,
		TeamID:           input.TeamID,
		AssignedToUserID: input.AssignedToUserID,
		DueDate:          input.DueDate,
		CreatedByUserID:  &input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(task.ID)
}

// TaskListFilter narrows the task listing. Whatever is supplied, the
// result set never extends past the teams the acting user belongs to.
type TaskListFilter struct {
	TeamID           *uint64
	AssignedToUserID *uint64
	Status           *models.TaskStatus
}

// List returns tasks from the acting user's teams, narrowed by filter.
// Filtering on a team the user does not belong to yields an empty list,
// never a widened one.
func (s *TaskService) List(actorID uint64, filter TaskListFilter) ([]models.Task, error) {
	teamIDs, err := s.membership.TeamIDs(actorID)
	if err != nil {
		return nil, err
	}

	scope := teamIDs
	if filter.TeamID != nil {
		scope = nil
		for _, id := range teamIDs {
			if id == *filter.TeamID {
				scope = []uint64{id}
				break
			}
		}
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		TeamIDs:          scope,
		AssignedToUserID: filter.AssignedToUserID,
		Status:           filter.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns a task. Both a missing task and a task in a foreign team
// come back as ErrTaskNotFound.
func (s *TaskService) Get(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	isMember, err := s.membership.IsMember(actorID, task.TeamID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTaskInput carries the fields to change. Pointer fields left nil
// are untouched; the Set flags distinguish an explicit null (unassign,
// clear due date) from an absent field.
type UpdateTaskInput struct {
	Title            string
	TitleSet         bool
	Description      string
	DescriptionSet   bool
	Status           string
	StatusSet        bool
	AssignedToUserID *uint64
	AssignedToSet    bool
	DueDate          *time.Time
	DueDateSet       bool
}

// Update edits a task. Any current member of the task's team may edit
// (looser than deletion). Status must be one of the three recognized
// values, but transitions between them are unordered. Reassignment
// validates the new assignee's membership; an explicit null unassigns.
func (s *TaskService) Update(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	isMember, err := s.membership.IsMember(actorID, task.TeamID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrTaskNotFound
	}

	if input.TitleSet {
		if strings.TrimSpace(input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = input.Title
	}
	if input.DescriptionSet {
		task.Description = input.Description
	}
	if input.StatusSet {
		status := models.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = status
	}
	if input.AssignedToSet {
		if input.AssignedToUserID != nil {
			assigneeIsMember, err := s.membership.IsMember(*input.AssignedToUserID, task.TeamID)
			if err != nil {
				return nil, err
			}
			if !assigneeIsMember {
				return nil, ErrAssigneeNotMember
			}
		}
		task.AssignedToUserID = input.AssignedToUserID
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(task.ID)
}

// Delete removes a task. Stricter than Update: only the task's creator or
// a team admin qualifies; ordinary members get Forbidden.
func (s *TaskService) Delete(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	role, err := s.membership.RoleOf(actorID, task.TeamID)
	if err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return ErrTaskNotFound
		}
		return err
	}

	// A task whose creator's account is gone can only be deleted by an
	// admin.
	isCreator := task.CreatedByUserID != nil && *task.CreatedByUserID == actorID
	if !isCreator && role != models.RoleAdmin {
		return ErrTaskDeleteForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) reload(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Creator", "Assignee")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
