package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCorpus(t *testing.T) {
	var gotReq CreateCorpusRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/corpora", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		writeEnvelope(w, http.StatusCreated, Corpus{
			ID:            "c-1",
			Name:          gotReq.Name,
			DocumentCount: len(gotReq.Documents),
		})
	})

	corpus, err := c.Corpora().Create(context.Background(), CreateCorpusRequest{
		Name: "hombro-2024",
		Documents: []DocumentInput{
			{Name: "sts_1.txt", Content: "desestimamos el recurso"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", corpus.ID)
	assert.Equal(t, 1, corpus.DocumentCount)
	assert.Equal(t, "hombro-2024", gotReq.Name)
}

func TestListCorpora(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		writeEnvelope(w, http.StatusOK, Page[Corpus]{
			Items:    []Corpus{{ID: "c-1"}, {ID: "c-2"}},
			Total:    12,
			Page:     2,
			PageSize: 10,
		})
	})

	page, err := c.Corpora().List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Total)
}

func TestGetCorpusDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/corpora/c-1", r.URL.Path)
		writeEnvelope(w, http.StatusOK, CorpusDetail{
			ID:   "c-1",
			Name: "hombro-2024",
			Documents: []Document{
				{ID: "d-1", Name: "sts_1.txt", Instance: "ts"},
			},
		})
	})

	detail, err := c.Corpora().Get(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "ts", detail.Documents[0].Instance)
}

func TestAddDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/corpora/c-1/documents", r.URL.Path)
		writeEnvelope(w, http.StatusCreated, Document{ID: "d-9", Name: "tsj_9.txt", Instance: "tsj"})
	})

	doc, err := c.Corpora().AddDocument(context.Background(), "c-1",
		DocumentInput{Name: "tsj_9.txt", Content: "estimamos el recurso"})
	require.NoError(t, err)
	assert.Equal(t, "tsj", doc.Instance)
}

func TestAnalyzeCorpus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/corpora/c-1/analyze", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Analysis{
			ID:       "a-1",
			CorpusID: "c-1",
			Counts:   map[string]int{"inss": 3},
			Tally:    InstanceTally{TS: 1, TSJ: 2},
			Risk: Risk{
				BaseScore:      120,
				InstanceFactor: 1.3,
				FinalScore:     156,
				Level:          "ALTO",
			},
			Prediction: Prediction{ProbabilityFavorable: 0.61, ProbabilityUnfavorable: 0.39, Confidence: 1},
		})
	})

	result, err := c.Corpora().Analyze(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "ALTO", result.Risk.Level)
	assert.InDelta(t, 0.61, result.Prediction.ProbabilityFavorable, 1e-9)
	assert.Equal(t, 3, result.Counts["inss"])
}

func TestDeleteCorpus(t *testing.T) {
	var called bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Corpora().Delete(context.Background(), "c-1"))
	assert.True(t, called)
}

func TestGetAnalysis(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/analyses/a-1", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Analysis{ID: "a-1", Risk: Risk{Level: "MEDIO"}})
	})

	result, err := c.Analyses().Get(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "MEDIO", result.Risk.Level)
}

func TestListAnalysesByCorpus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/corpora/c-1/analyses", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Page[Analysis]{
			Items: []Analysis{{ID: "a-2"}, {ID: "a-1"}},
			Total: 2,
		})
	})

	page, err := c.Analyses().ListByCorpus(context.Background(), "c-1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestGetDictionary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/dictionary", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Dictionary{
			Categories: []DictionaryCategory{
				{Name: "inss", Phrases: []string{"INSS"}},
			},
			Tiers: map[string]string{"inss": "LOW"},
		})
	})

	dict, err := c.Dictionary(context.Background())
	require.NoError(t, err)
	require.Len(t, dict.Categories, 1)
	assert.Equal(t, "LOW", dict.Tiers["inss"])
}
