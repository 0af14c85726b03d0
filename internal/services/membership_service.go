package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
	"team-task-manager/backend/internal/repository"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrNotTeamMember        = errors.New("you are not a member of this team")
	ErrAdminRequired        = errors.New("only team admins can perform this action")
	ErrAlreadyTeamMember    = errors.New("user is already a member of this team")
	ErrMembershipNotFound   = errors.New("team member not found")
	ErrCreatorSelfRemoval   = errors.New("team creator cannot be removed from their own team")
	ErrLastAdminSelfRemoval = errors.New("cannot remove yourself if you are the last admin of the team")
	ErrInvalidRole          = errors.New("role must be admin or member")
)

// MembershipService is the source of truth for who belongs to which team
// and with what role. Every role comparison in the codebase happens here;
// the team and task services delegate their authorization decisions to it.
// Roles are always read fresh from the store, never cached across requests.
type MembershipService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// RoleOf returns the user's role in the team, or ErrNotTeamMember.
func (s *MembershipService) RoleOf(userID, teamID uint64) (models.TeamRole, error) {
	member, err := s.teamRepo.FindMembership(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotTeamMember
		}
		return "", fmt.Errorf("failed to find membership: %w", err)
	}
	return member.Role, nil
}

// IsMember reports whether the user holds any membership in the team.
func (s *MembershipService) IsMember(userID, teamID uint64) (bool, error) {
	_, err := s.RoleOf(userID, teamID)
	if err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanManage reports whether the user may update or delete the team: team
// admins qualify, and so does the original creator even if later demoted.
func (s *MembershipService) CanManage(userID uint64, team *models.Team) (bool, error) {
	if team.CreatedByUserID == userID {
		return true, nil
	}

	role, err := s.RoleOf(userID, team.ID)
	if err != nil {
		if errors.Is(err, ErrNotTeamMember) {
			return false, nil
		}
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// TeamIDs returns the IDs of all teams the user belongs to.
func (s *MembershipService) TeamIDs(userID uint64) ([]uint64, error) {
	memberships, err := s.teamRepo.ListMembershipsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	ids := make([]uint64, len(memberships))
	for i, m := range memberships {
		ids[i] = m.TeamID
	}
	return ids, nil
}

// AddMember adds the user identified by memberEmail to the team. The
// acting user must be a team admin. The admin check and the insert run in
// one transaction, and the membership composite key turns a concurrent
// duplicate add into ErrAlreadyTeamMember rather than a second row.
func (s *MembershipService) AddMember(actorID, teamID uint64, memberEmail string, role models.TeamRole) (*models.TeamMembership, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.FindByEmail(memberEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	member := &models.TeamMembership{
		UserID:   target.ID,
		TeamID:   teamID,
		Role:     role,
		JoinedAt: time.Now(),
	}

	err = s.teamRepo.InTransaction(func(repo repository.TeamRepository) error {
		if _, err := repo.FindByID(teamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to find team: %w", err)
		}

		actor, err := repo.FindMembership(teamID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminRequired
			}
			return fmt.Errorf("failed to find membership: %w", err)
		}
		if actor.Role != models.RoleAdmin {
			return ErrAdminRequired
		}

		if err := repo.AddMember(member); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyTeamMember
			}
			return fmt.Errorf("failed to add member: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	member.User = *target
	return member, nil
}

// RemoveMember removes targetID from the team. The acting user must be a
// team admin. Two self-removal guards apply: the creator may never remove
// themselves, and the sole remaining admin may not remove themselves.
// The guards do not stop one admin from removing a different admin, even
// the last one; that asymmetry is long-standing observed behavior. All
// checks and the delete run in a single transaction.
func (s *MembershipService) RemoveMember(actorID, teamID, targetID uint64) error {
	return s.teamRepo.InTransaction(func(repo repository.TeamRepository) error {
		team, err := repo.FindByID(teamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to find team: %w", err)
		}

		actor, err := repo.FindMembership(teamID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminRequired
			}
			return fmt.Errorf("failed to find membership: %w", err)
		}
		if actor.Role != models.RoleAdmin {
			return ErrAdminRequired
		}

		if team.CreatedByUserID == targetID && actorID == targetID {
			return ErrCreatorSelfRemoval
		}

		target, err := repo.FindMembership(teamID, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return fmt.Errorf("failed to find membership: %w", err)
		}

		if target.Role == models.RoleAdmin && actorID == targetID {
			adminCount, err := repo.CountAdmins(teamID)
			if err != nil {
				return fmt.Errorf("failed to count admins: %w", err)
			}
			if adminCount == 1 {
				return ErrLastAdminSelfRemoval
			}
		}

		rows, err := repo.RemoveMember(teamID, targetID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if rows == 0 {
			return ErrMembershipNotFound
		}

		return nil
	})
}

// ListMembers returns the members of a team. Only members may look.
func (s *MembershipService) ListMembers(actorID, teamID uint64) ([]models.TeamMembership, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if _, err := s.RoleOf(actorID, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
