package redis

import (
	"context"
	"time"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// AnalysisCache adapts Cache to the analysis service's result cache, keyed by
// corpus content hash.
type AnalysisCache struct {
	cache Cache
	ttl   time.Duration
}

// NewAnalysisCache builds the adapter.  A zero ttl uses the cache default.
func NewAnalysisCache(cache Cache, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{cache: cache, ttl: ttl}
}

func (a *AnalysisCache) key(corpusHash string) string {
	return "analysis:" + corpusHash
}

// Get returns the cached result for the corpus hash, found=false on a miss.
func (a *AnalysisCache) Get(ctx context.Context, corpusHash string) (*analysis.Result, bool, error) {
	var result analysis.Result
	err := a.cache.Get(ctx, a.key(corpusHash), &result)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

// Set stores the result under the corpus hash.
func (a *AnalysisCache) Set(ctx context.Context, corpusHash string, result *analysis.Result) error {
	return a.cache.Set(ctx, a.key(corpusHash), result, a.ttl)
}
