package dto

import (
	"time"

	"team-task-manager/backend/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatedByUserID uint64    `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TeamWithRoleDTO is a team annotated with the requesting user's role and
// the creator's display name.
type TeamWithRoleDTO struct {
	TeamDTO
	MyRole            models.TeamRole `json:"my_role"`
	CreatedByUsername string          `json:"created_by_username"`
}

// TeamMemberDTO represents one member of a team
type TeamMemberDTO struct {
	UserID   uint64          `json:"user_id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.TeamRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// ToTeamDTO converts a team model to its response shape
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:              team.ID,
		Name:            team.Name,
		Description:     team.Description,
		CreatedByUserID: team.CreatedByUserID,
		CreatedAt:       team.CreatedAt,
		UpdatedAt:       team.UpdatedAt,
	}
}

// ToTeamWithRoleDTO converts a membership (with Team and Team.Creator
// preloaded) to the annotated list shape.
func ToTeamWithRoleDTO(m models.TeamMembership) TeamWithRoleDTO {
	return TeamWithRoleDTO{
		TeamDTO:           ToTeamDTO(m.Team),
		MyRole:            m.Role,
		CreatedByUsername: m.Team.Creator.Username,
	}
}

// ToTeamMemberDTO converts a membership (with User preloaded)
func ToTeamMemberDTO(m models.TeamMembership) TeamMemberDTO {
	return TeamMemberDTO{
		UserID:   m.UserID,
		Username: m.User.Username,
		Email:    m.User.Email,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// ToTeamMemberDTOs converts a slice of memberships
func ToTeamMemberDTOs(members []models.TeamMembership) []TeamMemberDTO {
	dtos := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToTeamMemberDTO(m)
	}
	return dtos
}
