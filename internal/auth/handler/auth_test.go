package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/events"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/handler"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/jwt"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/service"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/testutil"
)

func newAuthRouter(t *testing.T) (http.Handler, *testutil.MockDB, *jwt.Manager) {
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "test")
	m := newTestJWTManager()
	svc := service.NewAuthService(
		repository.NewUserRepository(mockDB.WrapDB()),
		m,
		events.NewUserEventPublisher(nil, log),
		log,
	)
	h := handler.NewAuthHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(m))
			r.Get("/me", h.Me)
		})
	})

	return r, mockDB, m
}

func userRow(id, email, hash, name, role string) *sqlmock.Rows {
	return testutil.MockRows("id", "email", "password_hash", "full_name", "role", "created_at").
		AddRow(id, email, hash, name, role, time.Now())
}

func TestAuthHandler_Register(t *testing.T) {
	router, mockDB, _ := newAuthRouter(t)

	mockDB.ExpectQuery(`SELECT COUNT(*) FROM users WHERE email = $1`).
		WithArgs("jordan@pharmarec.test").
		WillReturnRows(testutil.MockRows("count").AddRow(0))
	mockDB.ExpectQuery(`INSERT INTO users`).
		WithArgs(testutil.AnyUUID{}, "jordan@pharmarec.test", sqlmock.AnyArg(), "Jordan Lee", "staff").
		WillReturnRows(testutil.MockRows("created_at").AddRow(time.Now()))

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/register",
		map[string]interface{}{"email": "jordan@pharmarec.test", "password": "secret123", "full_name": "Jordan Lee"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var resp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
			User         struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &resp)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.Equal(t, "jordan@pharmarec.test", resp.Data.User.Email)
	assert.Equal(t, "staff", resp.Data.User.Role)

	mockDB.ExpectationsWereMet(t)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing email", map[string]interface{}{"password": "secret123", "full_name": "Jordan"}},
		{"bad email", map[string]interface{}{"email": "not-an-email", "password": "secret123", "full_name": "Jordan"}},
		{"short password", map[string]interface{}{"email": "a@b.test", "password": "abc", "full_name": "Jordan"}},
		{"unknown role", map[string]interface{}{"email": "a@b.test", "password": "secret123", "full_name": "Jordan", "role": "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.ExecuteRequest(router,
				testutil.NewHTTPRequest(http.MethodPost, "/auth/register", tt.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			testutil.AssertBodyContains(t, rr, "VALIDATION_ERROR")
		})
	}
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	router, mockDB, _ := newAuthRouter(t)

	mockDB.ExpectQuery(`SELECT COUNT(*) FROM users WHERE email = $1`).
		WithArgs("taken@pharmarec.test").
		WillReturnRows(testutil.MockRows("count").AddRow(1))

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/register",
		map[string]interface{}{"email": "taken@pharmarec.test", "password": "secret123", "full_name": "Jordan Lee"}))
	testutil.AssertStatus(t, rr, http.StatusConflict)
	testutil.AssertBodyContains(t, rr, "CONFLICT")
}

func TestAuthHandler_Login(t *testing.T) {
	router, mockDB, _ := newAuthRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein99"), bcrypt.MinCost)
	require.NoError(t, err)

	mockDB.ExpectQuery(`FROM users`).
		WithArgs("casey@pharmarec.test").
		WillReturnRows(userRow("user-7", "casey@pharmarec.test", string(hash), "Casey Nguyen", "pharmacist"))

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/login",
		map[string]interface{}{"email": "casey@pharmarec.test", "password": "letmein99"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
			User        struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &resp)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.Equal(t, "pharmacist", resp.Data.User.Role)
}

func TestAuthHandler_LoginRejections(t *testing.T) {
	router, mockDB, _ := newAuthRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein99"), bcrypt.MinCost)
	require.NoError(t, err)

	// Wrong password and unknown email produce the same response, so the
	// endpoint does not reveal which emails are registered.
	t.Run("wrong password", func(t *testing.T) {
		mockDB.ExpectQuery(`FROM users`).
			WithArgs("casey@pharmarec.test").
			WillReturnRows(userRow("user-7", "casey@pharmarec.test", string(hash), "Casey Nguyen", "pharmacist"))

		rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/login",
			map[string]interface{}{"email": "casey@pharmarec.test", "password": "wrong"}))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertBodyContains(t, rr, "INVALID_CREDENTIALS")
	})

	t.Run("unknown email", func(t *testing.T) {
		mockDB.ExpectQuery(`FROM users`).
			WithArgs("nobody@pharmarec.test").
			WillReturnRows(testutil.MockRows("id", "email", "password_hash", "full_name", "role", "created_at"))

		rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/login",
			map[string]interface{}{"email": "nobody@pharmarec.test", "password": "letmein99"}))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertBodyContains(t, rr, "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	router, mockDB, m := newAuthRouter(t)

	pair, err := m.GenerateTokenPair(&jwt.UserInfo{
		ID: "user-7", Email: "casey@pharmarec.test", Name: "Casey Nguyen", Role: "pharmacist",
	})
	require.NoError(t, err)

	mockDB.ExpectQuery(`FROM users`).
		WithArgs("user-7").
		WillReturnRows(userRow("user-7", "casey@pharmarec.test", "irrelevant", "Casey Nguyen", "pharmacist"))

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/refresh",
		map[string]interface{}{"refresh_token": pair.RefreshToken}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertBodyContains(t, rr, "access_token")
}

func TestAuthHandler_RefreshGarbageToken(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	rr := testutil.ExecuteRequest(router, testutil.NewHTTPRequest(http.MethodPost, "/auth/refresh",
		map[string]interface{}{"refresh_token": "not.a.token"}))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	testutil.AssertBodyContains(t, rr, "TOKEN_INVALID")
}

func TestAuthHandler_Me(t *testing.T) {
	router, mockDB, m := newAuthRouter(t)

	pair, err := m.GenerateTokenPair(&jwt.UserInfo{
		ID: "user-9", Email: "morgan@pharmarec.test", Name: "Morgan Reyes", Role: "staff",
	})
	require.NoError(t, err)

	mockDB.ExpectQuery(`FROM users`).
		WithArgs("user-9").
		WillReturnRows(userRow("user-9", "morgan@pharmarec.test", "irrelevant", "Morgan Reyes", "staff"))

	req := testutil.WithBearerToken(testutil.NewHTTPRequest(http.MethodGet, "/auth/me", nil), pair.AccessToken)
	rr := testutil.ExecuteRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			Email    string `json:"email"`
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	testutil.ParseJSONBody(t, rr, &resp)
	assert.Equal(t, "morgan@pharmarec.test", resp.Data.Email)
	assert.Equal(t, "Morgan Reyes", resp.Data.FullName)
}
