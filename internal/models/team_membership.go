package models

import "time"

type TeamRole string

const (
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

// Valid reports whether r is one of the two recognized roles.
func (r TeamRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// TeamMembership binds a user to a team with a role. The composite primary
// key makes the (user, team) pair unique at the store level, so concurrent
// add attempts cannot produce duplicate rows.
type TeamMembership struct {
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	TeamID   uint64    `gorm:"primarykey" json:"team_id"`
	Role     TeamRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
