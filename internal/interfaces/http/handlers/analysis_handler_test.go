package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

type fakeAnalysisLister struct {
	results []analysis.Result
	total   int
	gotPage common.Pagination
}

func (f *fakeAnalysisLister) ListByCorpus(_ context.Context, _ common.ID, p common.Pagination) ([]analysis.Result, int, error) {
	f.gotPage = p
	return f.results, f.total, nil
}

func newAnalysisRouter(h *AnalysisHandler) *gin.Engine {
	r := gin.New()
	r.GET("/api/v1/analyses/:id", h.Get)
	r.GET("/api/v1/corpora/:id/analyses", h.ListByCorpus)
	return r
}

func TestGetAnalysis(t *testing.T) {
	id := common.NewID()
	service := &fakeAnalysisService{getAnalysisFunc: func(_ context.Context, gotID common.ID) (*analysis.Result, error) {
		require.Equal(t, id, gotID)
		return &analysis.Result{BaseEntity: common.BaseEntity{ID: id}, CorpusHash: "abc"}, nil
	}}
	h := NewAnalysisHandler(service, nil, logging.NewNopLogger())

	w := doJSON(t, newAnalysisRouter(h), http.MethodGet, "/api/v1/analyses/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.APIResponse[analysis.Result]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Data.CorpusHash)
}

func TestGetAnalysisNotFound(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalysisService{}, nil, logging.NewNopLogger())

	w := doJSON(t, newAnalysisRouter(h), http.MethodGet, "/api/v1/analyses/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp common.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(errors.ErrCodeAnalysisNotFound), resp.Error.Code)
}

func TestListAnalysesByCorpus(t *testing.T) {
	lister := &fakeAnalysisLister{
		results: []analysis.Result{{CorpusHash: "h1"}, {CorpusHash: "h2"}},
		total:   7,
	}
	h := NewAnalysisHandler(&fakeAnalysisService{}, lister, logging.NewNopLogger())

	w := doJSON(t, newAnalysisRouter(h), http.MethodGet, "/api/v1/corpora/c1/analyses?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, common.Pagination{Page: 2, PageSize: 2}, lister.gotPage)

	var resp common.APIResponse[common.PagedResult[analysis.Result]]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Data.Total)
	assert.Len(t, resp.Data.Items, 2)
}

func TestListAnalysesWithoutLister(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalysisService{}, nil, logging.NewNopLogger())
	w := doJSON(t, newAnalysisRouter(h), http.MethodGet, "/api/v1/corpora/c1/analyses", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
