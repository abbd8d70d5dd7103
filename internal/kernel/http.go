// Package kernel builds the application's HTTP handler: global middleware,
// operational endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/routes"
	"github.com/shashiranjanraj/nutritrack/config"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/metrics"
	"github.com/shashiranjanraj/nutritrack/pkg/middleware"
	"github.com/shashiranjanraj/nutritrack/pkg/reqid"
	"github.com/shashiranjanraj/nutritrack/pkg/response"
	"github.com/shashiranjanraj/nutritrack/pkg/router"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

// HTTPKernel owns the router and the database handle behind /health.
type HTTPKernel struct {
	router *router.Router
	db     *gorm.DB
}

// NewHTTPKernel wires every route. db may be nil when only the route table is
// needed (route:list).
func NewHTTPKernel(db *gorm.DB, tokens *auth.Tokens) *HTTPKernel {
	k := &HTTPKernel{router: router.New(), db: db}
	r := k.router

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Request ID: before anything logs
	//  3. Recovery: catches panics before they kill the goroutine
	//  4. Logger: logs request_id from context
	//  5. CORS
	//  6. Presence verifier for the unique validation rule
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSOptionsFromOrigins(config.CORSAllowedOrigins())))
	r.Use(validate.Middleware(database.NewPresence(db)))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", "health", k.health)
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, config.APIPrefix(), db, tokens)
	return k
}

// Handler returns the root http.Handler.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every registered endpoint.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

func (k *HTTPKernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if k.db == nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	if err := database.Ping(ctx, k.db); err != nil {
		logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
