package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/detoxmine/detoxmine/internal/app"
	"github.com/detoxmine/detoxmine/internal/db"
	"github.com/detoxmine/detoxmine/internal/event"
	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/service"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	store := repository.NewStore(database)

	emitter, err := event.NewEmitter("", "")
	require.NoError(t, err)

	notify := service.NewNotifyService("", "noreply@example.com", "DetoxMine", true)

	a := &app.App{
		DB:             database,
		Store:          store,
		Emitter:        emitter,
		AuthService:    service.NewAuthService("integration-test-secret", time.Hour),
		NotifyService:  notify,
		ProgramService: service.NewProgramService(store, emitter, true),
		ProfileService: service.NewProfileService(store),
		GoalService:    service.NewGoalService(store, emitter, notify),
	}

	return SetupRoutes(a)
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func issueToken(t *testing.T, h http.Handler, address string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/v1/auth/token", "", map[string]string{"address": address})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// Walks the whole staking lifecycle over HTTP: bootstrap, profile, faucet,
// stake, report, and the read endpoints.
func TestStakingLifecycle(t *testing.T) {
	h := newTestHandler(t)

	admin := "admin11111111111"
	user := "alice11111111111"

	adminToken := issueToken(t, h, admin)
	userToken := issueToken(t, h, user)

	// Program bootstrap, authority = admin
	rec := doJSON(t, h, http.MethodPost, "/v1/program", adminToken, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)

	var program struct {
		Authority    string `json:"authority"`
		WellnessPool string `json:"wellness_pool"`
	}
	decodeJSON(t, rec, &program)
	assert.Equal(t, admin, program.Authority)

	// Profile + faucet funding
	rec = doJSON(t, h, http.MethodPost, "/v1/profiles", userToken, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/accounts/"+user+"/fund", adminToken, map[string]any{"amount": 5000})
	require.Equal(t, http.StatusOK, rec.Code)

	// Stake
	rec = doJSON(t, h, http.MethodPost, "/v1/goals", userToken, map[string]any{
		"amount":        1000,
		"limit_minutes": 60,
		"duration_days": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var goal struct {
		Address   string `json:"address"`
		Status    string `json:"status"`
		StartTime int64  `json:"start_time"`
		EndTime   int64  `json:"end_time"`
	}
	decodeJSON(t, rec, &goal)
	assert.Equal(t, "active", goal.Status)
	assert.Equal(t, int64(5*86400), goal.EndTime-goal.StartTime)

	// Daily report
	rec = doJSON(t, h, http.MethodPost, "/v1/goals/"+goal.Address+"/reports", userToken, map[string]any{
		"usage_minutes": 45,
		"date":          goal.StartTime,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Met           bool `json:"met"`
		DaysCompleted int  `json:"days_completed"`
	}
	decodeJSON(t, rec, &report)
	assert.True(t, report.Met)
	assert.Equal(t, 1, report.DaysCompleted)

	// Read endpoints
	rec = doJSON(t, h, http.MethodGet, "/v1/goals/"+goal.Address, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/goals/"+goal.Address+"/reports", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/profiles/"+user+"/goals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/accounts/"+keys.UserVault(user), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var account struct {
		Balance int64 `json:"balance"`
	}
	decodeJSON(t, rec, &account)
	assert.Equal(t, int64(4000), account.Balance)

	rec = doJSON(t, h, http.MethodGet, "/v1/program", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	h := newTestHandler(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/program"},
		{http.MethodPost, "/v1/profiles"},
		{http.MethodPost, "/v1/goals"},
		{http.MethodPost, "/v1/rewards/distributions"},
	}

	for _, route := range protected {
		rec := doJSON(t, h, route.method, route.path, "", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}

	// Garbage bearer token is also rejected
	rec := doJSON(t, h, http.MethodPost, "/v1/goals", "not-a-jwt", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	h := newTestHandler(t)

	admin := "admin11111111111"
	user := "alice11111111111"
	adminToken := issueToken(t, h, admin)
	userToken := issueToken(t, h, user)

	rec := doJSON(t, h, http.MethodPost, "/v1/program", adminToken, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/profiles", userToken, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Conflict: program and profile are singletons
	rec = doJSON(t, h, http.MethodPost, "/v1/program", adminToken, map[string]any{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/v1/profiles", userToken, map[string]any{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Bad request: invalid stake parameters
	rec = doJSON(t, h, http.MethodPost, "/v1/goals", userToken, map[string]any{
		"amount": 0, "limit_minutes": 60, "duration_days": 5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unprocessable: stake exceeds the vault balance
	rec = doJSON(t, h, http.MethodPost, "/v1/goals", userToken, map[string]any{
		"amount": 100, "limit_minutes": 60, "duration_days": 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Not found: unknown records
	rec = doJSON(t, h, http.MethodGet, "/v1/goals/deadbeef11111111", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/v1/profiles/ghost11111111111", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Forbidden: non-authority faucet call
	rec = doJSON(t, h, http.MethodPost, "/v1/accounts/"+user+"/fund", userToken, map[string]any{"amount": 100})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
