package kernel_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/repositories"
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
	"github.com/shashiranjanraj/nutritrack/internal/kernel"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
	"github.com/shashiranjanraj/nutritrack/pkg/testkit"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "api.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)
	return db
}

// newKernel wires the full stack over a fresh sqlite file with tokens kept
// in the personal_access_tokens table.
func newKernel(t *testing.T) *kernel.HTTPKernel {
	t.Helper()
	db := newDB(t)
	tokens := auth.NewTokens("kernel-test-secret", time.Hour, repositories.NewTokenRepository(db))
	return kernel.NewHTTPKernel(db, tokens)
}

func TestAPIFlows(t *testing.T) {
	testkit.RunSuite(t, "testdata/test_scenarios.json", func(t *testing.T) http.Handler {
		return newKernel(t).Handler()
	})
}

func TestHealthReportsUnavailableDatabase(t *testing.T) {
	db := newDB(t)
	h := kernel.NewHTTPKernel(db, nil).Handler()
	require.NoError(t, database.Close(db))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newKernel(t).Handler()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nutritrack_http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newKernel(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRoutes(t *testing.T) {
	got := map[string]string{}
	for _, ri := range kernel.NewHTTPKernel(nil, nil).Routes() {
		got[ri.Method+" "+ri.Path] = ri.Name
	}

	want := map[string]string{
		"GET /health":                    "health",
		"GET /metrics":                   "metrics",
		"POST /api/register":             "auth.register",
		"POST /api/login":                "auth.login",
		"GET /api/logout":                "auth.logout",
		"POST /api/target-macros":        "user.target-macros",
		"GET /api/meals":                 "meals.index",
		"POST /api/meals":                "meals.store",
		"PUT /api/meals/{id}":            "meals.update",
		"DELETE /api/meals/{id}":         "meals.destroy",
		"GET /api/today-list":            "today.index",
		"GET /api/today-list/drop":       "today.drop",
		"POST /api/today-list/{meal_id}": "today.store",
		"PUT /api/today-list/{id}":       "today.update",
		"DELETE /api/today-list/{id}":    "today.destroy",
	}
	assert.Equal(t, want, got)
}
