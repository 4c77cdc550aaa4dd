package server

import (
	"context"
	"net/http"
	"testing"

	"ripple/internal/config"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingUserStore simulates a signup race: the duplicate-email precheck sees
// no account, but the insert loses to a concurrent writer on the unique index.
type racingUserStore struct {
	createErr error
}

func (s *racingUserStore) Create(_ context.Context, _ *models.User) error {
	return s.createErr
}
func (s *racingUserStore) GetByID(_ context.Context, _ uint) (*models.User, error) {
	return nil, models.NewNotFoundError("User", 0)
}
func (s *racingUserStore) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

func TestSignupAndLogin(t *testing.T) {
	_, app := newTestServer(t)

	// Signup
	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var signupBody struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeJSON(t, resp, &signupBody)
	assert.NotEmpty(t, signupBody.Token)
	assert.Equal(t, "Alice", signupBody.User.Name)

	// Duplicate email
	resp = doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Alice2",
		"email":    "alice@example.com",
		"password": "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with wrong password
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login with correct credentials
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginBody struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeJSON(t, resp, &loginBody)
	assert.NotEmpty(t, loginBody.Token)

	// The token works against a protected route
	resp = doRequest(t, app, http.MethodGet, "/api/posts", loginBody.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{
			name: "missing fields",
			body: map[string]string{"name": "Alice"},
		},
		{
			name: "weak password",
			body: map[string]string{
				"name":     "Alice",
				"email":    "alice@example.com",
				"password": "short",
			},
		},
		{
			name: "invalid email",
			body: map[string]string{
				"name":     "Alice",
				"email":    "not-an-email",
				"password": "Sup3rSecret!Pass",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSignupConcurrentDuplicateEmail(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	s := &Server{
		config: &config.Config{JWTSecret: "test-secret-key-for-tests-only-0123456789"},
		userStore: &racingUserStore{
			createErr: models.NewAlreadyExistsError("User already exists"),
		},
	}
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody models.ErrorResponse
	decodeJSON(t, resp, &errBody)
	assert.Equal(t, "ALREADY_EXISTS", errBody.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
