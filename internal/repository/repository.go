package repository

import (
	"team-task-manager/backend/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all registered users
	List() ([]models.User, error)

	// DeleteAccount removes a user and everything that depends on them:
	// teams they created (with those teams' tasks and memberships), their
	// own memberships, and their assignments on surviving tasks, all in
	// one transaction.
	DeleteAccount(id uint64) error
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// CreateWithAdmin creates a team and its first admin membership
	// atomically, so a team can never exist without an admin.
	CreateWithAdmin(team *models.Team, member *models.TeamMembership) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete deletes a team and cascades to its tasks and memberships
	Delete(id uint64) error

	// FindMembership finds a specific team membership
	FindMembership(teamID, userID uint64) (*models.TeamMembership, error)

	// ListMembershipsForUser lists all memberships of a user, with the
	// team and its creator preloaded.
	ListMembershipsForUser(userID uint64) ([]models.TeamMembership, error)

	// ListMembers lists all members of a team, with users preloaded
	ListMembers(teamID uint64) ([]models.TeamMembership, error)

	// AddMember inserts a membership row
	AddMember(member *models.TeamMembership) error

	// RemoveMember deletes a membership row, reporting how many rows went
	RemoveMember(teamID, userID uint64) (int64, error)

	// CountAdmins counts the admin memberships of a team
	CountAdmins(teamID uint64) (int64, error)

	// InTransaction runs fn against a repository bound to a single
	// database transaction. Check-then-mutate sequences (member removal,
	// member addition) go through here so the guard and the mutation
	// commit together.
	InTransaction(fn func(TeamRepository) error) error
}

// TaskFilter holds filtering options for listing tasks. TeamIDs is the
// hard scope (the teams the requesting user belongs to); the remaining
// fields only narrow within it.
type TaskFilter struct {
	TeamIDs          []uint64
	AssignedToUserID *uint64
	Status           *models.TaskStatus
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks scoped and narrowed by filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error
}
