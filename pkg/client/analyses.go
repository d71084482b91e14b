package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// AnalysesClient serves stored analysis results.
type AnalysesClient struct {
	client *Client
}

// InstanceTally counts documents per judicial instance.
type InstanceTally struct {
	TS    int `json:"ts"`
	TSJ   int `json:"tsj"`
	Other int `json:"other"`
}

// RiskContribution is the weighted share of one category in the risk score.
type RiskContribution struct {
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	Count    int     `json:"count"`
	Weighted float64 `json:"weighted"`
}

// Risk is the weighted risk score of a corpus.
type Risk struct {
	BaseScore      float64            `json:"base_score"`
	InstanceFactor float64            `json:"instance_factor"`
	FinalScore     float64            `json:"final_score"`
	Level          string             `json:"level"`
	TierTotals     map[string]float64 `json:"tier_totals,omitempty"`
	Contributions  []RiskContribution `json:"contributions,omitempty"`
}

// Prediction is the aggregated outcome forecast.
type Prediction struct {
	ProbabilityFavorable   float64 `json:"probability_favorable"`
	ProbabilityUnfavorable float64 `json:"probability_unfavorable"`
	Confidence             float64 `json:"confidence"`
	Explanation            string  `json:"explanation,omitempty"`
}

// Analysis is a stored corpus analysis result.  Insights is kept raw so SDK
// consumers can decode only the sections they use.
type Analysis struct {
	ID         string          `json:"id"`
	CorpusID   string          `json:"corpus_id"`
	CorpusName string          `json:"corpus_name"`
	CorpusHash string          `json:"corpus_hash"`
	Counts     map[string]int  `json:"counts"`
	Tally      InstanceTally   `json:"tally"`
	Risk       Risk            `json:"risk"`
	Prediction Prediction      `json:"prediction"`
	Insights   json.RawMessage `json:"insights,omitempty"`
	Duration   time.Duration   `json:"duration"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Dictionary is the active phrase dictionary with its tier assignments.
type Dictionary struct {
	Categories []DictionaryCategory `json:"categories"`
	Tiers      map[string]string    `json:"tiers"`
}

// DictionaryCategory is one named phrase group.
type DictionaryCategory struct {
	Name    string   `json:"name"`
	Phrases []string `json:"phrases"`
}

// Get fetches one analysis by ID.
func (a *AnalysesClient) Get(ctx context.Context, analysisID string) (*Analysis, error) {
	var resp envelope[Analysis]
	if err := a.client.get(ctx, "/api/v1/analyses/"+analysisID, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListByCorpus pages through the analyses of one corpus, newest first.
func (a *AnalysesClient) ListByCorpus(ctx context.Context, corpusID string, page, pageSize int) (*Page[Analysis], error) {
	path := fmt.Sprintf("/api/v1/corpora/%s/analyses?page=%d&page_size=%d", corpusID, page, pageSize)
	var resp envelope[Page[Analysis]]
	if err := a.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
