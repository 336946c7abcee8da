package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/dto"
	"github.com/yukikurage/taskboard-api/internal/live"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/testutil"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	db     *gorm.DB
	hub    *live.Hub
	svc    Services
	router *gin.Engine
}

// opts may swap services before the routes are mounted.
func setupTestEnv(t *testing.T, opts ...func(*gorm.DB, *Services)) testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	hub := live.NewHub()

	userRepo := repository.NewUserRepository(db)
	users := services.NewUserService(userRepo)
	tasks := services.NewTaskService(repository.NewTaskRepository(db), userRepo, hub, nil)
	svc := Services{
		Auth:     services.NewAuthService(userRepo, nil),
		Users:    users,
		Tasks:    tasks,
		Comments: services.NewCommentService(repository.NewCommentRepository(db), tasks, users, hub),
	}
	for _, opt := range opts {
		opt(db, &svc)
	}

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, svc)

	return testEnv{db: db, hub: hub, svc: svc, router: r}
}

// do sends a JSON request through the router with the given session cookie.
func (e testEnv) do(t *testing.T, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != nil {
		req.AddCookie(session)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup registers a user through the API and returns it with its session cookie.
func (e testEnv) signup(t *testing.T, email, username string) (dto.UserDTO, *http.Cookie) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": "supersecret",
		"username": username,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user, sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	t.Fatal("expected session cookie to be set")
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
