// Package http wires the gin router and HTTP server of the analysis API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/interfaces/http/handlers"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies that
// make up the route tree.
type RouterConfig struct {
	CorpusHandler     *handlers.CorpusHandler
	AnalysisHandler   *handlers.AnalysisHandler
	DictionaryHandler *handlers.DictionaryHandler
	HealthHandler     *handlers.HealthHandler

	// MetricsHandler serves GET /metrics; usually the prometheus collector
	// handler.  Omitted when nil.
	MetricsHandler http.Handler

	Mode    string // gin mode: "debug" or "release"
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics
}

// NewRouter builds the gin engine with the full middleware chain and route
// tree.  Handlers left nil simply do not register their routes, which keeps
// partial wiring (tests, worker-only deployments) possible.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(cfg.Logger, cfg.Metrics),
		middleware.Recovery(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		engine.GET("/healthz", cfg.HealthHandler.Live)
		engine.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.MetricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	v1 := engine.Group("/api/v1")

	if cfg.CorpusHandler != nil {
		v1.POST("/corpora", cfg.CorpusHandler.Create)
		v1.GET("/corpora", cfg.CorpusHandler.List)
		v1.GET("/corpora/:id", cfg.CorpusHandler.Get)
		v1.DELETE("/corpora/:id", cfg.CorpusHandler.Delete)
		v1.POST("/corpora/:id/documents", cfg.CorpusHandler.AddDocument)
		v1.POST("/corpora/:id/analyze", cfg.CorpusHandler.Analyze)
	}
	if cfg.AnalysisHandler != nil {
		v1.GET("/analyses/:id", cfg.AnalysisHandler.Get)
		v1.GET("/corpora/:id/analyses", cfg.AnalysisHandler.ListByCorpus)
	}
	if cfg.DictionaryHandler != nil {
		v1.GET("/dictionary", cfg.DictionaryHandler.Get)
	}

	return engine
}
