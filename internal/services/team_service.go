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
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrTeamNameTaken       = errors.New("team with this name already exists")
	ErrTeamManageForbidden = errors.New("only the team creator or an admin can manage this team")
)

// TeamService provides team lifecycle operations. All authorization
// decisions are delegated to the MembershipService.
type TeamService struct {
	teamRepo   repository.TeamRepository
	membership *MembershipService
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, membership *MembershipService) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		membership: membership,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
	CreatorID   uint64
}

// Create creates a team; the creator becomes its first admin atomically
// with the team row.
func (s *TeamService) Create(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:            input.Name,
		Description:     input.Description,
		CreatedByUserID: input.CreatorID,
	}

	member := &models.TeamMembership{
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := s.teamRepo.CreateWithAdmin(team, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListForUser returns the memberships of all teams the user belongs to,
// with teams and their creators preloaded.
func (s *TeamService) ListForUser(userID uint64) ([]models.TeamMembership, error) {
	memberships, err := s.teamRepo.ListMembershipsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}

// Get returns a team together with the acting user's role in it.
// Non-members are told the team is forbidden, not that it doesn't exist.
func (s *TeamService) Get(teamID, actorID uint64) (*models.Team, models.TeamRole, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTeamNotFound
		}
		return nil, "", fmt.Errorf("failed to find team: %w", err)
	}

	role, err := s.membership.RoleOf(actorID, teamID)
	if err != nil {
		return nil, "", err
	}

	return team, role, nil
}

// UpdateTeamInput represents updatable team fields.
type UpdateTeamInput struct {
	Name        string
	Description string
}

// Update changes a team's name and description. Permitted for team admins
// and for the original creator, who keeps this right even if demoted.
func (s *TeamService) Update(teamID, actorID uint64, input UpdateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	allowed, err := s.membership.CanManage(actorID, team)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTeamManageForbidden
	}

	team.Name = input.Name
	team.Description = input.Description
	if err := s.teamRepo.Update(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// Delete removes a team, cascading to its memberships and tasks. Same
// two-path permission rule as Update.
func (s *TeamService) Delete(teamID, actorID uint64) error {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	allowed, err := s.membership.CanManage(actorID, team)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrTeamManageForbidden
	}

	if err := s.teamRepo.Delete(teamID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	return nil
}
