package client

import (
	"context"
	"fmt"
	"time"
)

// CorporaClient groups the corpus ingestion and analysis endpoints.
type CorporaClient struct {
	client *Client
}

// DocumentInput is one judgment to ingest.
type DocumentInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CreateCorpusRequest creates a corpus with optional initial documents.
type CreateCorpusRequest struct {
	Name      string          `json:"name"`
	Documents []DocumentInput `json:"documents,omitempty"`
}

// Corpus is the summary view returned by create and list.
type Corpus struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// CorpusDetail is the full corpus with its document metadata.
type CorpusDetail struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Documents []Document `json:"documents"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Document is the metadata of one ingested judgment.
type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Instance string `json:"instance"`
	Size     int64  `json:"size"`
	Hash     string `json:"hash,omitempty"`
}

// Create registers a corpus and uploads its initial documents.
func (c *CorporaClient) Create(ctx context.Context, req CreateCorpusRequest) (*Corpus, error) {
	var resp envelope[Corpus]
	if err := c.client.post(ctx, "/api/v1/corpora", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// List pages through corpora.  page and pageSize follow the server defaults
// when zero.
func (c *CorporaClient) List(ctx context.Context, page, pageSize int) (*Page[Corpus], error) {
	path := fmt.Sprintf("/api/v1/corpora?page=%d&page_size=%d", page, pageSize)
	var resp envelope[Page[Corpus]]
	if err := c.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Get fetches one corpus with its document metadata.
func (c *CorporaClient) Get(ctx context.Context, corpusID string) (*CorpusDetail, error) {
	var resp envelope[CorpusDetail]
	if err := c.client.get(ctx, "/api/v1/corpora/"+corpusID, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// AddDocument appends one judgment to an existing corpus.
func (c *CorporaClient) AddDocument(ctx context.Context, corpusID string, doc DocumentInput) (*Document, error) {
	var resp envelope[Document]
	if err := c.client.post(ctx, "/api/v1/corpora/"+corpusID+"/documents", doc, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Analyze runs the analysis pipeline over the corpus and returns the result.
func (c *CorporaClient) Analyze(ctx context.Context, corpusID string) (*Analysis, error) {
	var resp envelope[Analysis]
	if err := c.client.post(ctx, "/api/v1/corpora/"+corpusID+"/analyze", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Delete removes a corpus and its documents.
func (c *CorporaClient) Delete(ctx context.Context, corpusID string) error {
	return c.client.delete(ctx, "/api/v1/corpora/"+corpusID)
}
