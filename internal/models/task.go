package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the three recognized statuses.
// Transitions between statuses are deliberately unordered: any valid value
// may replace any other.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Status           TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TeamID           uint64     `gorm:"not null" json:"team_id"`
	AssignedToUserID *uint64    `json:"assigned_to_user_id"`
	DueDate          *time.Time `json:"due_date"`
	CreatedByUserID  *uint64    `json:"created_by_user_id"` // null once the creator's account is gone
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Team     Team  `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedToUserID" json:"assignee,omitempty"`
	Creator  *User `gorm:"foreignKey:CreatedByUserID" json:"creator,omitempty"`
}
