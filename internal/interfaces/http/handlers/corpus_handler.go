package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// ContentStore persists raw judgment text outside the database.
type ContentStore interface {
	Put(ctx context.Context, corpusID, documentID, name, content string) error
	Get(ctx context.Context, corpusID, documentID string) (string, error)
}

// EventPublisher emits domain events for ingestion activity.
type EventPublisher interface {
	Publish(ctx context.Context, event common.DomainEvent) error
}

// CorpusHandler serves corpus and document ingestion plus analysis kickoff.
type CorpusHandler struct {
	repo      document.Repository
	contents  ContentStore
	analyzer  analysis.Service
	publisher EventPublisher
	logger    logging.Logger
}

// NewCorpusHandler wires the corpus endpoints.  contents and publisher may
// be nil; ingestion then skips blob storage and event emission.
func NewCorpusHandler(repo document.Repository, contents ContentStore, analyzer analysis.Service, publisher EventPublisher, log logging.Logger) *CorpusHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CorpusHandler{
		repo:      repo,
		contents:  contents,
		analyzer:  analyzer,
		publisher: publisher,
		logger:    log.Named("corpus_handler"),
	}
}

type createCorpusRequest struct {
	Name      string            `json:"name" binding:"required"`
	Documents []documentPayload `json:"documents"`
}

type documentPayload struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type corpusResponse struct {
	ID            common.ID `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Create handles POST /api/v1/corpora.
func (h *CorpusHandler) Create(c *gin.Context) {
	var req createCorpusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "invalid corpus payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, errors.New(errors.ErrCodeValidation, "corpus name must not be blank"))
		return
	}

	corpus := document.NewCorpus(req.Name)
	for _, d := range req.Documents {
		corpus.Add(d.Name, d.Content)
	}

	if err := h.repo.Save(c.Request.Context(), corpus); err != nil {
		respondError(c, err)
		return
	}
	for i := range corpus.Documents {
		h.storeContent(c.Request.Context(), corpus.ID, corpus.Documents[i])
	}

	respond(c, http.StatusCreated, corpusResponse{
		ID:            corpus.ID,
		Name:          corpus.Name,
		DocumentCount: len(corpus.Documents),
		CreatedAt:     corpus.CreatedAt,
	})
}

// List handles GET /api/v1/corpora.
func (h *CorpusHandler) List(c *gin.Context) {
	var p common.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		respondInvalid(c, err, "invalid pagination parameters")
		return
	}
	p.Normalize()

	corpora, total, err := h.repo.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]corpusResponse, len(corpora))
	for i, corpus := range corpora {
		items[i] = corpusResponse{
			ID:            corpus.ID,
			Name:          corpus.Name,
			DocumentCount: len(corpus.Documents),
			CreatedAt:     corpus.CreatedAt,
		}
	}
	respond(c, http.StatusOK, common.PagedResult[corpusResponse]{
		Items:    items,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}

// Get handles GET /api/v1/corpora/:id.
func (h *CorpusHandler) Get(c *gin.Context) {
	corpus, err := h.repo.FindByID(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, corpus)
}

// AddDocument handles POST /api/v1/corpora/:id/documents.
func (h *CorpusHandler) AddDocument(c *gin.Context) {
	corpusID := common.ID(c.Param("id"))

	var req documentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "invalid document payload")
		return
	}

	doc := document.NewDocument(req.Name, req.Content)
	if err := h.repo.AddDocument(c.Request.Context(), corpusID, doc); err != nil {
		respondError(c, err)
		return
	}
	h.storeContent(c.Request.Context(), corpusID, doc)

	respond(c, http.StatusCreated, gin.H{
		"id":       doc.ID,
		"name":     doc.Name,
		"instance": doc.Instance,
		"size":     doc.Size,
	})
}

// Analyze handles POST /api/v1/corpora/:id/analyze.  Document content is
// hydrated from the content store before the pipeline runs.
func (h *CorpusHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	corpusID := common.ID(c.Param("id"))

	corpus, err := h.repo.FindByID(ctx, corpusID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.hydrate(ctx, corpus); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.analyzer.AnalyzeCorpus(ctx, corpus)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Delete handles DELETE /api/v1/corpora/:id.
func (h *CorpusHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), common.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// storeContent pushes a document's text to the blob store and emits the
// ingestion event.  Both are best effort: the metadata row is already
// committed, so failures are logged rather than surfaced to the caller.
func (h *CorpusHandler) storeContent(ctx context.Context, corpusID common.ID, doc document.Document) {
	if h.contents != nil {
		if err := h.contents.Put(ctx, corpusID.String(), doc.ID.String(), doc.Name, doc.Content); err != nil {
			h.logger.Error("failed to store judgment content",
				logging.String("corpus_id", corpusID.String()),
				logging.String("document_id", doc.ID.String()),
				logging.Err(err))
		}
	}
	if h.publisher != nil {
		payload, err := json.Marshal(gin.H{
			"document_id": doc.ID,
			"corpus_id":   corpusID,
			"name":        doc.Name,
			"instance":    doc.Instance,
			"size_bytes":  doc.Size,
			"ingested_at": time.Now().UTC(),
		})
		if err != nil {
			return
		}
		event := common.DomainEvent{
			EventID:    common.NewID(),
			EventType:  "document.ingested",
			OccurredAt: time.Now().UTC(),
			Payload:    payload,
		}
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("failed to publish ingestion event",
				logging.String("document_id", doc.ID.String()),
				logging.Err(err))
		}
	}
}

// hydrate fills document content from the blob store.  Documents whose blob
// cannot be read keep empty content; the analysis pipeline reports them as
// skipped.
func (h *CorpusHandler) hydrate(ctx context.Context, corpus *document.Corpus) error {
	if h.contents == nil {
		return nil
	}
	for i := range corpus.Documents {
		if corpus.Documents[i].Content != "" {
			continue
		}
		content, err := h.contents.Get(ctx, corpus.ID.String(), corpus.Documents[i].ID.String())
		if err != nil {
			h.logger.Warn("failed to hydrate document content",
				logging.String("corpus_id", corpus.ID.String()),
				logging.String("document_id", corpus.Documents[i].ID.String()),
				logging.Err(err))
			continue
		}
		corpus.Documents[i].Content = content
	}
	return nil
}
