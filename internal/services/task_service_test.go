package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"team-task-manager/backend/internal/models"
	"team-task-manager/backend/internal/repository"
)

type taskTestEnv struct {
	db          *gorm.DB
	membership  *MembershipService
	teamService *TeamService
	taskService *TaskService
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	membership := NewMembershipService(teamRepo, userRepo)
	teamService := NewTeamService(teamRepo, membership)
	taskService := NewTaskService(taskRepo, membership)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return taskTestEnv{
		db:          db,
		membership:  membership,
		teamService: teamService,
		taskService: taskService,
	}
}

// Walks the full collaboration scenario: A creates "Eng" and a task, adds
// B, assigns the task to B, fails to assign it to outsider C, B cannot
// delete the task, A can.
func TestTaskLifecycleScenario(t *testing.T) {
	env := setupTaskTestEnv(t)

	userA := createServiceTestUser(t, env.db, "alice")
	userB := createServiceTestUser(t, env.db, "bob")
	userC := createServiceTestUser(t, env.db, "carol")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: userA.ID})
	require.NoError(t, err)

	_, err = env.membership.AddMember(userA.ID, team.ID, userB.Email, "")
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:     "Fix bug",
		TeamID:    team.ID,
		CreatorID: userA.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Nil(t, task.AssignedToUserID)

	// Assign to B, a member: fine.
	task, err = env.taskService.Update(task.ID, userA.ID, UpdateTaskInput{
		AssignedToUserID: &userB.ID,
		AssignedToSet:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedToUserID)
	require.Equal(t, userB.ID, *task.AssignedToUserID)
	require.Equal(t, "bob", task.Assignee.Username)

	// Assign to C, not a member: validation error.
	_, err = env.taskService.Update(task.ID, userA.ID, UpdateTaskInput{
		AssignedToUserID: &userC.ID,
		AssignedToSet:    true,
	})
	require.ErrorIs(t, err, ErrAssigneeNotMember)

	// B is neither creator nor admin: delete forbidden.
	err = env.taskService.Delete(task.ID, userB.ID)
	require.ErrorIs(t, err, ErrTaskDeleteForbidden)

	// A is the creator: delete succeeds.
	err = env.taskService.Delete(task.ID, userA.ID)
	require.NoError(t, err)

	_, err = env.taskService.Get(task.ID, userA.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCreateTask_RequiresMembership(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	outsider := createServiceTestUser(t, env.db, "outsider")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)

	_, err = env.taskService.Create(CreateTaskInput{
		Title:     "Sneaky",
		TeamID:    team.ID,
		CreatorID: outsider.ID,
	})
	require.ErrorIs(t, err, ErrNotTeamMember)
}

func TestCreateTask_AssigneeMustBeMember(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	outsider := createServiceTestUser(t, env.db, "outsider")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)

	_, err = env.taskService.Create(CreateTaskInput{
		Title:            "Fix bug",
		TeamID:           team.ID,
		AssignedToUserID: &outsider.ID,
		CreatorID:        creator.ID,
	})
	require.ErrorIs(t, err, ErrAssigneeNotMember)
}

func TestGetTask_HiddenFromNonMembers(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	outsider := createServiceTestUser(t, env.db, "outsider")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:     "Secret work",
		TeamID:    team.ID,
		CreatorID: creator.ID,
	})
	require.NoError(t, err)

	// Not found, not forbidden: existence is not leaked.
	_, err = env.taskService.Get(task.ID, outsider.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTask_AnyMemberMayEdit(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	member := createServiceTestUser(t, env.db, "member")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)
	_, err = env.membership.AddMember(creator.ID, team.ID, member.Email, "")
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:     "Fix bug",
		TeamID:    team.ID,
		CreatorID: creator.ID,
	})
	require.NoError(t, err)

	// An ordinary member who is not the creator may edit.
	updated, err := env.taskService.Update(task.ID, member.ID, UpdateTaskInput{
		Status:    string(models.TaskStatusInProgress),
		StatusSet: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
}

func TestUpdateTask_StatusTransitionsUnordered(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:     "Fix bug",
		TeamID:    team.ID,
		CreatorID: creator.ID,
	})
	require.NoError(t, err)

	// pending → completed, skipping in-progress, then back: all allowed.
	for _, status := range []models.TaskStatus{
		models.TaskStatusCompleted,
		models.TaskStatusPending,
		models.TaskStatusInProgress,
	} {
		updated, err := env.taskService.Update(task.ID, creator.ID, UpdateTaskInput{
			Status:    string(status),
			StatusSet: true,
		})
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	_, err = env.taskService.Update(task.ID, creator.ID, UpdateTaskInput{
		Status:    "done",
		StatusSet: true,
	})
	require.ErrorIs(t, err, ErrInvalidTaskStatus)
}

func TestUpdateTask_ExplicitNullUnassigns(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:            "Fix bug",
		TeamID:           team.ID,
		AssignedToUserID: &creator.ID,
		CreatorID:        creator.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedToUserID)

	updated, err := env.taskService.Update(task.ID, creator.ID, UpdateTaskInput{
		AssignedToUserID: nil,
		AssignedToSet:    true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.AssignedToUserID)
}

func TestDeleteTask_TeamAdminMayDeleteOthersTasks(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	member := createServiceTestUser(t, env.db, "member")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)
	_, err = env.membership.AddMember(creator.ID, team.ID, member.Email, "")
	require.NoError(t, err)

	task, err := env.taskService.Create(CreateTaskInput{
		Title:     "Member task",
		TeamID:    team.ID,
		CreatorID: member.ID,
	})
	require.NoError(t, err)

	// creator holds role admin, so the delete goes through even though
	// member created the task.
	err = env.taskService.Delete(task.ID, creator.ID)
	require.NoError(t, err)
}

func TestListTasks_ScopedToOwnTeams(t *testing.T) {
	env := setupTaskTestEnv(t)

	alice := createServiceTestUser(t, env.db, "alice")
	bob := createServiceTestUser(t, env.db, "bob")

	aliceTeam, err := env.teamService.Create(CreateTeamInput{Name: "Alice Team", CreatorID: alice.ID})
	require.NoError(t, err)
	bobTeam, err := env.teamService.Create(CreateTeamInput{Name: "Bob Team", CreatorID: bob.ID})
	require.NoError(t, err)

	_, err = env.taskService.Create(CreateTaskInput{Title: "Alice task", TeamID: aliceTeam.ID, CreatorID: alice.ID})
	require.NoError(t, err)
	_, err = env.taskService.Create(CreateTaskInput{Title: "Bob task", TeamID: bobTeam.ID, CreatorID: bob.ID})
	require.NoError(t, err)

	tasks, err := env.taskService.List(alice.ID, TaskListFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Alice task", tasks[0].Title)

	// Filtering on someone else's team narrows to nothing; it never
	// widens the scope.
	tasks, err = env.taskService.List(alice.ID, TaskListFilter{TeamID: &bobTeam.ID})
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestListTasks_Filters(t *testing.T) {
	env := setupTaskTestEnv(t)

	alice := createServiceTestUser(t, env.db, "alice")
	bob := createServiceTestUser(t, env.db, "bob")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: alice.ID})
	require.NoError(t, err)
	_, err = env.membership.AddMember(alice.ID, team.ID, bob.Email, "")
	require.NoError(t, err)

	_, err = env.taskService.Create(CreateTaskInput{
		Title:            "Assigned to bob",
		TeamID:           team.ID,
		AssignedToUserID: &bob.ID,
		CreatorID:        alice.ID,
	})
	require.NoError(t, err)
	other, err := env.taskService.Create(CreateTaskInput{Title: "Unassigned", TeamID: team.ID, CreatorID: alice.ID})
	require.NoError(t, err)

	tasks, err := env.taskService.List(alice.ID, TaskListFilter{AssignedToUserID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Assigned to bob", tasks[0].Title)

	_, err = env.taskService.Update(other.ID, alice.ID, UpdateTaskInput{
		Status:    string(models.TaskStatusCompleted),
		StatusSet: true,
	})
	require.NoError(t, err)

	completed := models.TaskStatusCompleted
	tasks, err = env.taskService.List(alice.ID, TaskListFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Unassigned", tasks[0].Title)
}

func TestDeleteTeam_CascadesToTasksAndMemberships(t *testing.T) {
	env := setupTaskTestEnv(t)

	creator := createServiceTestUser(t, env.db, "creator")
	member := createServiceTestUser(t, env.db, "member")

	team, err := env.teamService.Create(CreateTeamInput{Name: "Eng", CreatorID: creator.ID})
	require.NoError(t, err)
	_, err = env.membership.AddMember(creator.ID, team.ID, member.Email, "")
	require.NoError(t, err)
	_, err = env.taskService.Create(CreateTaskInput{Title: "Doomed", TeamID: team.ID, CreatorID: creator.ID})
	require.NoError(t, err)

	require.NoError(t, env.teamService.Delete(team.ID, creator.ID))

	var taskCount, memberCount int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("team_id = ?", team.ID).Count(&taskCount).Error)
	require.NoError(t, env.db.Model(&models.TeamMembership{}).Where("team_id = ?", team.ID).Count(&memberCount).Error)
	require.Zero(t, taskCount)
	require.Zero(t, memberCount)
}
