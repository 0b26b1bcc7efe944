package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewUserRepository(mockDB.WrapDB())

	user := &repository.User{
		Email:        "casey@pharmarec.test",
		PasswordHash: "$2a$10$hash",
		FullName:     "Casey Nguyen",
		Role:         "staff",
	}

	mockDB.ExpectQuery("INSERT INTO users").
		WithArgs(testutil.AnyUUID{}, user.Email, user.PasswordHash, user.FullName, user.Role).
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewUserRepository(mockDB.WrapDB())

	rows := testutil.MockRows("id", "email", "password_hash", "full_name", "role", "created_at").
		AddRow("user-1", "casey@pharmarec.test", "$2a$10$hash", "Casey Nguyen", "staff", time.Now())

	mockDB.ExpectQuery("SELECT id, email, password_hash, full_name, role, created_at").
		WithArgs("casey@pharmarec.test").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "casey@pharmarec.test")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Casey Nguyen", user.FullName)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewUserRepository(mockDB.WrapDB())

	mockDB.ExpectQuery("SELECT id, email, password_hash, full_name, role, created_at").
		WithArgs("nobody@pharmarec.test").
		WillReturnRows(testutil.MockRows("id", "email", "password_hash", "full_name", "role", "created_at"))

	_, err := repo.GetByEmail(context.Background(), "nobody@pharmarec.test")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewUserRepository(mockDB.WrapDB())

	mockDB.ExpectQuery("SELECT id, email, password_hash, full_name, role, created_at").
		WithArgs("missing-id").
		WillReturnRows(testutil.MockRows("id", "email", "password_hash", "full_name", "role", "created_at"))

	_, err := repo.GetByID(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_EmailExists(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewUserRepository(mockDB.WrapDB())

	mockDB.ExpectQuery("SELECT COUNT(*) FROM users WHERE email = $1").
		WithArgs("casey@pharmarec.test").
		WillReturnRows(testutil.MockRows("count").AddRow(1))

	exists, err := repo.EmailExists(context.Background(), "casey@pharmarec.test")
	require.NoError(t, err)
	assert.True(t, exists)

	mockDB.ExpectQuery("SELECT COUNT(*) FROM users WHERE email = $1").
		WithArgs("new@pharmarec.test").
		WillReturnRows(testutil.MockRows("count").AddRow(0))

	exists, err = repo.EmailExists(context.Background(), "new@pharmarec.test")
	require.NoError(t, err)
	assert.False(t, exists)
	mockDB.ExpectationsWereMet(t)
}
