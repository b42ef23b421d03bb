package repository_test

import (
	"context"
	"testing"

	"famtasks/internal/model"
	"famtasks/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	user := &model.User{
		ID:             userID,
		Email:          "test@example.com",
		HashedPassword: "hashed_password",
		Name:           "Test User",
		Role:           model.RoleMember,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	userID := uuid.New()
	email := "test@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "name", "role"}).
			AddRow(userID.String(), email, "hashed_password", "Test User", model.RoleMember))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	email := "nonexistent@example.com"

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE email = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := userRepo.FindByEmail(context.Background(), email)

	// Assert
	assert.NoError(t, err) // Absence is not an error here
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := userRepo.GetByID(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetFamily(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := userRepo.SetFamily(context.Background(), uuid.New(), uuid.New(), model.RoleAdmin)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetFamily_UserMissing(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := userRepo.SetFamily(context.Background(), uuid.New(), uuid.New(), model.RoleMember)

	// Assert
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
