package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/testutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: database.NewGormLogger(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_FindByUsername_Query(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "username", "provider"}).
		AddRow("u-1", "alice@example.com", "alice", "password")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WillReturnRows(rows)

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	require.NotNil(t, user.Username)
	assert.Equal(t, "alice", *user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername("ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)

	name := "alice"
	require.NoError(t, repo.Create(&models.User{Email: "a@example.com", Username: &name, Provider: "password"}))

	err := repo.Create(&models.User{Email: "b@example.com", Username: &name, Provider: "password"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = repo.Create(&models.User{Email: "a@example.com", Provider: "password"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// usernames are optional and NULLs never collide
	require.NoError(t, repo.Create(&models.User{Email: "c@example.com", Provider: "password"}))
	require.NoError(t, repo.Create(&models.User{Email: "d@example.com", Provider: "password"}))

	found, err := repo.FindByEmail("c@example.com")
	require.NoError(t, err)
	assert.Nil(t, found.Username)

	users, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
