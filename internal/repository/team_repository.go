package repository

import (
	"database/sql"

	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithAdmin creates the team row and the creator's admin membership
// in one transaction. Both succeed or both fail; there is no window in
// which a team exists without an admin.
func (r *GormTeamRepository) CreateWithAdmin(team *models.Team, member *models.TeamMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member.TeamID = team.ID
		member.UserID = team.CreatedByUserID
		member.Role = models.RoleAdmin

		return tx.Create(member).Error
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete deletes a team and all related data in a transaction
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
}

// FindMembership finds a specific team membership
func (r *GormTeamRepository) FindMembership(teamID, userID uint64) (*models.TeamMembership, error) {
	var member models.TeamMembership
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembershipsForUser lists all teams a user is a member of
func (r *GormTeamRepository) ListMembershipsForUser(userID uint64) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	if err := r.db.Preload("Team").Preload("Team.Creator").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a team
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := r.db.Preload("User").
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember inserts a membership row. The composite primary key turns a
// duplicate (user, team) pair into gorm.ErrDuplicatedKey.
func (r *GormTeamRepository) AddMember(member *models.TeamMembership) error {
	return r.db.Create(member).Error
}

// RemoveMember deletes a membership row
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) (int64, error) {
	result := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMembership{})
	return result.RowsAffected, result.Error
}

// CountAdmins counts the admin memberships of a team
func (r *GormTeamRepository) CountAdmins(teamID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND role = ?", teamID, models.RoleAdmin).
		Count(&count).Error
	return count, err
}

// InTransaction runs fn against a transaction-bound copy of the
// repository. The transaction is serializable: the admin-count guard in
// member removal reads membership rows and must not interleave with a
// concurrent removal, or two admins could each see the other and both
// leave. Under read committed that race commits; serializable aborts one
// side instead.
func (r *GormTeamRepository) InTransaction(fn func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTeamRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
