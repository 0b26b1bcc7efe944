package repository_test

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func TestUserRepository_CreateAndFetch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewUserRepository(suite.DB)

	user := &repository.User{
		Email:        "morgan@pharmarec.test",
		PasswordHash: "$2a$04$notarealhashbutcloseenoughxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		FullName:     "Morgan Reyes",
		Role:         "pharmacist",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "morgan@pharmarec.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Morgan Reyes", byEmail.FullName)
	assert.Equal(t, "pharmacist", byEmail.Role)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "morgan@pharmarec.test", byID.Email)
}

func TestUserRepository_DuplicateEmailConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewUserRepository(suite.DB)
	suite.SeedUser(t, ctx, suite.Fixtures.User(testutil.WithEmail("taken@pharmarec.test")))

	err := repo.Create(ctx, &repository.User{
		Email:        "taken@pharmarec.test",
		PasswordHash: "hash",
		FullName:     "Second Account",
		Role:         "staff",
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "email already exists")
}

func TestUserRepository_FetchUnknownEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewUserRepository(suite.DB)

	_, err := repo.GetByEmail(ctx, "nobody@pharmarec.test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUserRepository_EmailExistsForSeededUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewUserRepository(suite.DB)
	suite.SeedUser(t, ctx, suite.Fixtures.User(
		testutil.WithEmail("exists@pharmarec.test"),
		testutil.WithRole("admin"),
	))

	exists, err := repo.EmailExists(ctx, "exists@pharmarec.test")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "missing@pharmarec.test")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_SeededPasswordRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewUserRepository(suite.DB)
	suite.SeedUser(t, ctx, suite.Fixtures.User(
		testutil.WithEmail("casey@pharmarec.test"),
		testutil.WithFullName("Casey Tran"),
		testutil.WithPassword("s3cret-enough"),
	))

	user, err := repo.GetByEmail(ctx, "casey@pharmarec.test")
	require.NoError(t, err)
	assert.Equal(t, "Casey Tran", user.FullName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-enough")))
}
