package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit-api/internal/mocks"
)

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("creates the user and returns a token", func(t *testing.T) {
		f := newHandlerFixture(t)
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{Token: "signed.jwt.token"})

		req := newRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Username: "learner",
			Email:    "learner@example.com",
			Password: "a long enough password",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[AuthResponse](t, rec)
		assert.Equal(t, "signed.jwt.token", resp.AccessToken)
		assert.NotEqual(t, uuid.Nil, resp.UserID)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		f := newHandlerFixture(t)
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Username: "learner",
			Email:    "learner@example.com",
			Password: "short",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Validation error")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedUser(t, "learner@example.com")
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{Token: "token"})

		req := newRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Username: "another",
			Email:    "learner@example.com",
			Password: "a long enough password",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already exists")
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newHandlerFixture(t)
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodPost, "/api/auth/register", "not an object", uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		f := newHandlerFixture(t)
		user := f.seedUser(t, "learner@example.com")
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{Token: "signed.jwt.token"})

		req := newRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "learner@example.com",
			Password: "a long enough password",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[AuthResponse](t, rec)
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "signed.jwt.token", resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.seedUser(t, "learner@example.com")
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "learner@example.com",
			Password: "not the password",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		f := newHandlerFixture(t)
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "a long enough password",
		}, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})
}

func TestAuthHandlerMe(t *testing.T) {
	t.Run("returns the profile with learning counters", func(t *testing.T) {
		f := newHandlerFixture(t)
		user := f.seedUser(t, "learner@example.com")
		user.TotalPoints = 75
		user.QuestionsAsked = 1
		user.AnswersGiven = 1
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodGet, "/api/users/me", nil, user.ID, nil)
		rec := httptest.NewRecorder()
		handler.Me(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, user.Username)
		assert.Contains(t, body, `"total_points":75`)
		// The hash never leaves the server.
		assert.NotContains(t, body, "password")
	})

	t.Run("unauthenticated request", func(t *testing.T) {
		f := newHandlerFixture(t)
		handler := NewAuthHandler(f.userService, &mocks.MockJWTService{})

		req := newRequest(t, http.MethodGet, "/api/users/me", nil, uuid.Nil, nil)
		rec := httptest.NewRecorder()
		handler.Me(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
