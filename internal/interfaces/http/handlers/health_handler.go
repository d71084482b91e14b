package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// CheckFunc probes one dependency.  A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness.  Liveness is unconditional;
// readiness runs the registered dependency checks.
type HealthHandler struct {
	version string
	logger  logging.Logger
	metrics *prometheus.AppMetrics

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewHealthHandler builds the handler with no checks registered.
func NewHealthHandler(version string, log logging.Logger, metrics *prometheus.AppMetrics) *HealthHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HealthHandler{
		version: version,
		logger:  log.Named("health"),
		metrics: metrics,
		checks:  make(map[string]CheckFunc),
	}
}

// Register adds a named readiness check.
func (h *HealthHandler) Register(name string, check CheckFunc) {
	h.mu.Lock()
	h.checks[name] = check
	h.mu.Unlock()
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// Ready handles GET /readyz.  It responds 503 when any dependency check
// fails, with the per-component outcome in the body.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	components := make(map[string]string, len(checks))
	healthy := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			healthy = false
			components[name] = err.Error()
			h.setComponentStatus(name, 0)
			h.logger.Warn("readiness check failed",
				logging.String("component", name), logging.Err(err))
			continue
		}
		components[name] = "ok"
		h.setComponentStatus(name, 1)
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}

func (h *HealthHandler) setComponentStatus(name string, up float64) {
	if h.metrics == nil {
		return
	}
	h.metrics.HealthCheckStatus.WithLabelValues(name).Set(up)
}
