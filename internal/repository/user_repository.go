package repository

import (
	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all registered users
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteAccount removes the user and everything that depends on them.
// Teams the user created are deleted with their tasks and memberships;
// tasks in other teams survive with the assignment nulled out.
func (r *GormUserRepository) DeleteAccount(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var teamIDs []uint64
		if err := tx.Model(&models.Team{}).
			Where("created_by_user_id = ?", id).
			Pluck("id", &teamIDs).Error; err != nil {
			return err
		}

		if len(teamIDs) > 0 {
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.TeamMembership{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", teamIDs).Delete(&models.Team{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_to_user_id = ?", id).
			Update("assigned_to_user_id", nil).Error; err != nil {
			return err
		}

		// Tasks the user created in other people's teams survive without
		// a creator. Their own teams' tasks are already gone by now.
		if err := tx.Model(&models.Task{}).
			Where("created_by_user_id = ?", id).
			Update("created_by_user_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
