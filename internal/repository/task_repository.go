package repository

import (
	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks scoped to filter.TeamIDs and narrowed by the
// remaining filter fields.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	if len(filter.TeamIDs) == 0 {
		return []models.Task{}, nil
	}

	query := r.db.Where("team_id IN ?", filter.TeamIDs)

	if filter.AssignedToUserID != nil {
		query = query.Where("assigned_to_user_id = ?", *filter.AssignedToUserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tasks []models.Task
	if err := query.Preload("Creator").Preload("Assignee").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}
