package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/dbpool"
	"github.com/stocktrail/stocktrail/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Ledger      LedgerRepository
	Audit       AuditRepository
	Summary     SummaryRepository
	ActorLookup middleware.ActorLookup
	CORSOrigins []string
	Version     string
}

// maxBodySize caps request bodies; ledger payloads are small.
const maxBodySize = 1 << 20 // 1 MB

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.Prometheus())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version)
	items := NewItemHandler(deps.Ledger, log)
	logs := NewLogHandler(deps.Audit, log)
	summary := NewSummaryHandler(deps.Summary, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require a resolved actor identity.
	api.Use(middleware.Identity(deps.ActorLookup, log))

	// Items.
	api.GET("/items", items.List)
	api.POST("/items", items.Create)
	api.POST("/items/batch", items.CreateBatch)
	api.GET("/items/:id", items.Get)
	api.PUT("/items/:id", items.Update)
	api.POST("/items/:id/adjust", items.Adjust)
	api.DELETE("/items/:id", items.Delete)

	// Audit log.
	api.GET("/logs", logs.Query)
	api.DELETE("/logs", logs.Clear)

	// Summary.
	api.GET("/summary", summary.Get)
	api.GET("/summary/transactions", summary.DrillDown)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
