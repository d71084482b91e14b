package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// AnalysisLister pages through stored results for one corpus.
type AnalysisLister interface {
	ListByCorpus(ctx context.Context, corpusID common.ID, p common.Pagination) ([]analysis.Result, int, error)
}

// AnalysisHandler serves stored analysis results.
type AnalysisHandler struct {
	service analysis.Service
	lister  AnalysisLister
	logger  logging.Logger
}

// NewAnalysisHandler wires the analysis read endpoints.  lister may be nil;
// the per-corpus listing then responds 404.
func NewAnalysisHandler(service analysis.Service, lister AnalysisLister, log logging.Logger) *AnalysisHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisHandler{
		service: service,
		lister:  lister,
		logger:  log.Named("analysis_handler"),
	}
}

// Get handles GET /api/v1/analyses/:id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	result, err := h.service.GetAnalysis(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// ListByCorpus handles GET /api/v1/corpora/:id/analyses.
func (h *AnalysisHandler) ListByCorpus(c *gin.Context) {
	if h.lister == nil {
		c.Status(http.StatusNotFound)
		return
	}

	var p common.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		respondInvalid(c, err, "invalid pagination parameters")
		return
	}
	p.Normalize()

	results, total, err := h.lister.ListByCorpus(c.Request.Context(), common.ID(c.Param("id")), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, common.PagedResult[analysis.Result]{
		Items:    results,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}
