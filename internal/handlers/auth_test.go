package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"gorm.io/gorm"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupTestEnv(t)

	user, session := env.signup(t, "newuser@example.com", "newuser")

	require.NotNil(t, user.Username)
	assert.Equal(t, "newuser", *user.Username)
	assert.Equal(t, "newuser", user.DisplayName)
	assert.Equal(t, "password", user.Provider)

	// signing up also signs in
	w := env.do(t, http.MethodGet, "/api/auth/me", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[dto.UserDTO](t, w).ID)
}

func TestAuthHandler_Signup_UsernameTaken(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "first@example.com", "taken")

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "second@example.com",
		"password": "supersecret",
		"username": "taken",
	}, nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrCodeUsernameTaken, decode[apierrors.APIError](t, w).Code)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthHandler_Signup_InvalidInput(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"password": "supersecret"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"email": "a@example.com", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.svc.Auth.Signup(services.SignupInput{
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode[dto.UserDTO](t, w)
	assert.Equal(t, "existing@example.com", response.Email)
	assert.Nil(t, response.Username)
	assert.Equal(t, "existing@example.com", response.DisplayName)
	sessionCookie(t, w)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongpassword",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decode[apierrors.APIError](t, w).Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	_, session := env.signup(t, "bye@example.com", "")

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, sessionCookie(t, w))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.svc.Auth.Signup(services.SignupInput{
		Email:    "current@example.com",
		Password: "supersecret",
		Username: "current-user",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	NewAuthHandler(env.svc.Auth).GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	response := decode[dto.UserDTO](t, w)
	assert.Equal(t, user.Username, response.Username)
}

func TestAuthHandler_RequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/api/auth/me", "/api/users", "/api/tasks"} {
		w := env.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAuthHandler_LoginFederated(t *testing.T) {
	verifier, err := services.NewIdentityTokenVerifier(services.IdentityConfig{
		ClientID: "taskboard-web",
		Secret:   "identity-secret",
	})
	require.NoError(t, err)

	env := setupTestEnv(t, func(db *gorm.DB, svc *Services) {
		svc.Auth = services.NewAuthService(repository.NewUserRepository(db), verifier)
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "subject-1",
		"email": "federated@example.com",
		"aud":   "taskboard-web",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("identity-secret"))
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/auth/federated", map[string]string{"id_token": token}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := decode[dto.UserDTO](t, w)
	assert.Equal(t, "federated@example.com", user.Email)
	assert.Equal(t, "google", user.Provider)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, sessionCookie(t, w))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[dto.UserDTO](t, w).ID)

	w = env.do(t, http.MethodPost, "/api/auth/federated", map[string]string{"id_token": "forged"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidToken, decode[apierrors.APIError](t, w).Code)
}

func TestAuthHandler_LoginFederated_Disabled(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/federated", map[string]string{"id_token": "anything"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
