package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCorpusRepo struct {
	saveFunc        func(ctx context.Context, c *document.Corpus) error
	findByIDFunc    func(ctx context.Context, id common.ID) (*document.Corpus, error)
	listFunc        func(ctx context.Context, p common.Pagination) ([]document.Corpus, int, error)
	addDocumentFunc func(ctx context.Context, corpusID common.ID, doc document.Document) error
	deleteFunc      func(ctx context.Context, id common.ID) error
}

func (f *fakeCorpusRepo) Save(ctx context.Context, c *document.Corpus) error {
	if f.saveFunc != nil {
		return f.saveFunc(ctx, c)
	}
	return nil
}

func (f *fakeCorpusRepo) FindByID(ctx context.Context, id common.ID) (*document.Corpus, error) {
	if f.findByIDFunc != nil {
		return f.findByIDFunc(ctx, id)
	}
	return nil, errors.New(errors.ErrCodeCorpusNotFound, "corpus not found")
}

func (f *fakeCorpusRepo) List(ctx context.Context, p common.Pagination) ([]document.Corpus, int, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, p)
	}
	return nil, 0, nil
}

func (f *fakeCorpusRepo) AddDocument(ctx context.Context, corpusID common.ID, doc document.Document) error {
	if f.addDocumentFunc != nil {
		return f.addDocumentFunc(ctx, corpusID, doc)
	}
	return nil
}

func (f *fakeCorpusRepo) Delete(ctx context.Context, id common.ID) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

type fakeContentStore struct {
	blobs map[string]string // corpusID/documentID -> content
	puts  int
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{blobs: make(map[string]string)}
}

func (f *fakeContentStore) Put(_ context.Context, corpusID, documentID, _, content string) error {
	f.puts++
	f.blobs[corpusID+"/"+documentID] = content
	return nil
}

func (f *fakeContentStore) Get(_ context.Context, corpusID, documentID string) (string, error) {
	content, ok := f.blobs[corpusID+"/"+documentID]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "object not found")
	}
	return content, nil
}

type fakeAnalysisService struct {
	analyzeCorpusFunc func(ctx context.Context, corpus *document.Corpus) (*analysis.Result, error)
	getAnalysisFunc   func(ctx context.Context, id common.ID) (*analysis.Result, error)
}

func (f *fakeAnalysisService) AnalyzeCorpus(ctx context.Context, corpus *document.Corpus) (*analysis.Result, error) {
	if f.analyzeCorpusFunc != nil {
		return f.analyzeCorpusFunc(ctx, corpus)
	}
	return &analysis.Result{CorpusID: corpus.ID}, nil
}

func (f *fakeAnalysisService) AnalyzeDocument(_ context.Context, doc document.Document) (*analysis.DocumentResult, error) {
	return &analysis.DocumentResult{}, nil
}

func (f *fakeAnalysisService) GetAnalysis(ctx context.Context, id common.ID) (*analysis.Result, error) {
	if f.getAnalysisFunc != nil {
		return f.getAnalysisFunc(ctx, id)
	}
	return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
}

type capturedEvent struct {
	event common.DomainEvent
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, event common.DomainEvent) error {
	f.events = append(f.events, capturedEvent{event: event})
	return nil
}

func newCorpusRouter(h *CorpusHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/corpora", h.Create)
	r.GET("/api/v1/corpora", h.List)
	r.GET("/api/v1/corpora/:id", h.Get)
	r.DELETE("/api/v1/corpora/:id", h.Delete)
	r.POST("/api/v1/corpora/:id/documents", h.AddDocument)
	r.POST("/api/v1/corpora/:id/analyze", h.Analyze)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCorpus(t *testing.T) {
	var saved *document.Corpus
	repo := &fakeCorpusRepo{saveFunc: func(_ context.Context, c *document.Corpus) error {
		saved = c
		return nil
	}}
	contents := newFakeContentStore()
	publisher := &fakePublisher{}
	h := NewCorpusHandler(repo, contents, &fakeAnalysisService{}, publisher, logging.NewNopLogger())

	w := doJSON(t, newCorpusRouter(h), http.MethodPost, "/api/v1/corpora", gin.H{
		"name": "expediente hombro",
		"documents": []gin.H{
			{"name": "sts_1.txt", "content": "tribunal supremo. desestimamos."},
			{"name": "tsj_2.txt", "content": "tribunal superior de justicia. estimamos."},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, saved)
	assert.Len(t, saved.Documents, 2)
	assert.Equal(t, 2, contents.puts)
	assert.Len(t, publisher.events, 2)
	assert.Equal(t, "document.ingested", publisher.events[0].event.EventType)

	var resp common.APIResponse[corpusResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.DocumentCount)
}

func TestCreateCorpusValidation(t *testing.T) {
	h := NewCorpusHandler(&fakeCorpusRepo{}, nil, &fakeAnalysisService{}, nil, logging.NewNopLogger())
	r := newCorpusRouter(h)

	w := doJSON(t, r, http.MethodPost, "/api/v1/corpora", gin.H{"documents": []gin.H{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/corpora", gin.H{"name": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(errors.ErrCodeValidation), resp.Error.Code)
}

func TestGetCorpusNotFound(t *testing.T) {
	h := NewCorpusHandler(&fakeCorpusRepo{}, nil, &fakeAnalysisService{}, nil, logging.NewNopLogger())

	w := doJSON(t, newCorpusRouter(h), http.MethodGet, "/api/v1/corpora/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeCorpusNotFound), resp.Error.Code)
}

func TestAddDocumentDetectsInstance(t *testing.T) {
	var added document.Document
	repo := &fakeCorpusRepo{addDocumentFunc: func(_ context.Context, _ common.ID, doc document.Document) error {
		added = doc
		return nil
	}}
	h := NewCorpusHandler(repo, newFakeContentStore(), &fakeAnalysisService{}, nil, logging.NewNopLogger())

	w := doJSON(t, newCorpusRouter(h), http.MethodPost, "/api/v1/corpora/c1/documents", gin.H{
		"name":    "sts_99.txt",
		"content": "tribunal supremo",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, document.InstanceTS, added.Instance)
}

func TestAnalyzeHydratesContent(t *testing.T) {
	corpus := document.NewCorpus("expediente")
	doc := corpus.Add("tsj_1.txt", "texto original")
	// Simulate a metadata-only read from postgres.
	corpus.Documents[0].Content = ""

	contents := newFakeContentStore()
	require.NoError(t, contents.Put(context.Background(), corpus.ID.String(), doc.ID.String(), doc.Name, "texto original"))

	repo := &fakeCorpusRepo{findByIDFunc: func(_ context.Context, id common.ID) (*document.Corpus, error) {
		return corpus, nil
	}}

	var analyzed *document.Corpus
	service := &fakeAnalysisService{analyzeCorpusFunc: func(_ context.Context, c *document.Corpus) (*analysis.Result, error) {
		analyzed = c
		return &analysis.Result{CorpusID: c.ID}, nil
	}}

	h := NewCorpusHandler(repo, contents, service, nil, logging.NewNopLogger())
	w := doJSON(t, newCorpusRouter(h), http.MethodPost, "/api/v1/corpora/"+corpus.ID.String()+"/analyze", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, analyzed)
	assert.Equal(t, "texto original", analyzed.Documents[0].Content)
}

func TestDeleteCorpus(t *testing.T) {
	h := NewCorpusHandler(&fakeCorpusRepo{}, nil, &fakeAnalysisService{}, nil, logging.NewNopLogger())
	w := doJSON(t, newCorpusRouter(h), http.MethodDelete, "/api/v1/corpora/c1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
