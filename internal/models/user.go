package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Memberships  []TeamMembership `gorm:"foreignKey:UserID" json:"-"`
	CreatedTeams []Team           `gorm:"foreignKey:CreatedByUserID" json:"-"`
	CreatedTasks []Task           `gorm:"foreignKey:CreatedByUserID" json:"-"`
}
