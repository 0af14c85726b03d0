package models

import (
	"time"
)

type Team struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedByUserID uint64    `gorm:"not null" json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Creator User             `gorm:"foreignKey:CreatedByUserID" json:"creator,omitempty"`
	Members []TeamMembership `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Tasks   []Task           `gorm:"foreignKey:TeamID" json:"tasks,omitempty"`
}
