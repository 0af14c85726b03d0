package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"})
}

func TestUserRepository_FindByUsername(t *testing.T) {
	repo, mock := setupMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("alice", 1).
		WillReturnRows(userRows().AddRow(1, "alice", "alice@example.com", "hash", now, now))

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, user.ID)
	require.Equal(t, "alice@example.com", user.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("nobody", 1).
		WillReturnRows(userRows())

	_, err := repo.FindByUsername("nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_OrderedByUsername(t *testing.T) {
	repo, mock := setupMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" ORDER BY username`)).
		WillReturnRows(userRows().
			AddRow(2, "alice", "alice@example.com", "hash", now, now).
			AddRow(1, "bob", "bob@example.com", "hash", now, now))

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Account deletion with no authored teams still clears the user's own
// memberships and their assignee and creator references on surviving
// tasks, all in one transaction.
func TestUserRepository_DeleteAccount(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "teams" WHERE created_by_user_id = $1`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "team_memberships" WHERE user_id = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tasks" SET "assigned_to_user_id"=`).
		WithArgs(nil, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "tasks" SET "created_by_user_id"=`).
		WithArgs(nil, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAccount(42))
	require.NoError(t, mock.ExpectationsWereMet())
}
