package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http"
	"github.com/ritmoapp/ritmo-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
	"github.com/ritmoapp/ritmo-engine/internal/core/workers"
)

// testEnv wires the full stack over in-memory repositories, mirroring the
// production router composition minus Postgres and Redis.
type testEnv struct {
	router     *gin.Engine
	habitRepo  *repository.InMemoryHabitRepository
	entryRepo  *repository.InMemoryEntryRepository
	authSvc    *services.AuthService
	tokenSvc   *services.TokenService
	worker     *workers.StreakWorker
	cancelWork context.CancelFunc
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	entryRepo := repository.NewInMemoryEntryRepository()
	userRepo := repository.NewInMemoryUserRepository()

	worker := workers.NewStreakWorker(habitRepo, entryRepo)
	workerCtx, cancel := context.WithCancel(context.Background())
	worker.Start(workerCtx)
	t.Cleanup(cancel)

	tokenSvc := services.NewTokenService("test-secret", "test", time.Hour)
	authSvc := services.NewAuthService(userRepo, tokenSvc)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authSvc),
		HabitHandler:   adapterHTTP.NewHabitHandler(services.NewHabitService(habitRepo, entryRepo)),
		EntryHandler:   adapterHTTP.NewEntryHandler(services.NewEntryService(entryRepo, habitRepo, worker)),
		StatsHandler:   adapterHTTP.NewStatsHandler(services.NewStatsService(habitRepo, entryRepo)),
		InsightHandler: adapterHTTP.NewInsightHandler(services.NewInsightService(habitRepo, entryRepo)),
		TokenService:   tokenSvc,
		StartTime:      time.Now(),
	})

	return &testEnv{
		router:     router,
		habitRepo:  habitRepo,
		entryRepo:  entryRepo,
		authSvc:    authSvc,
		tokenSvc:   tokenSvc,
		worker:     worker,
		cancelWork: cancel,
	}
}

// registerUser creates an account through the API and returns a bearer token.
func (env *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()

	body := `{"email": "` + email + `", "password": "correct horse"}`
	w := env.do(t, "POST", "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, "POST", "/api/v1/auth/login", `{"email": "`+email+`", "password": "correct horse"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (env *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) createHabit(t *testing.T, token, body string) string {
	t.Helper()

	w := env.do(t, "POST", "/api/v1/habits", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}
