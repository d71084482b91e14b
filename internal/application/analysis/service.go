// Package analysis provides the application-level orchestration of a corpus
// analysis: per-document phrase counting, instance detection, and favorability
// classification over a worker pool, then aggregation into a risk score, an
// outcome prediction, and an insight report.
package analysis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/config"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/favorability"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/insights"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/outcome_predictor"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/phrase_counter"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/risk_engine"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// EventAnalysisCompleted is the event type emitted after a corpus analysis.
const EventAnalysisCompleted = "analysis.completed"

// DocumentResult is the per-document slice of an analysis.
type DocumentResult struct {
	DocumentID     common.ID                     `json:"document_id"`
	Name           string                        `json:"name"`
	Instance       document.Instance             `json:"instance"`
	Counts         phrase_counter.CategoryCounts `json:"counts"`
	Occurrences    []phrase_counter.Occurrence   `json:"occurrences,omitempty"`
	Classification favorability.Classification   `json:"classification"`
}

// SkippedDocument records a document excluded from the analysis.
type SkippedDocument struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result is the complete outcome of a corpus analysis.
type Result struct {
	common.BaseEntity
	CorpusID   common.ID                     `json:"corpus_id"`
	CorpusName string                        `json:"corpus_name"`
	CorpusHash string                        `json:"corpus_hash"`
	Documents  []DocumentResult              `json:"documents"`
	Skipped    []SkippedDocument             `json:"skipped,omitempty"`
	Counts     phrase_counter.CategoryCounts `json:"counts"`
	Tally      document.InstanceTally        `json:"tally"`
	Risk       risk_engine.Score             `json:"risk"`
	Prediction outcome_predictor.Prediction  `json:"prediction"`
	Insights   insights.Report               `json:"insights"`
	Duration   time.Duration                 `json:"duration"`
	// FromCache reports whether the result was served from the cache; it is
	// not persisted.
	FromCache bool `json:"-"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Collaborator interfaces
// ─────────────────────────────────────────────────────────────────────────────

// ResultRepository persists analysis results.
type ResultRepository interface {
	Save(ctx context.Context, result *Result) error
	FindByID(ctx context.Context, id common.ID) (*Result, error)
}

// ResultCache caches results by corpus content hash.  Get returns found=false
// on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, result *Result) error
}

// EventPublisher emits domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event common.DomainEvent) error
}

// Service defines the corpus analysis operations.
type Service interface {
	AnalyzeCorpus(ctx context.Context, corpus *document.Corpus) (*Result, error)
	AnalyzeDocument(ctx context.Context, doc document.Document) (*DocumentResult, error)
	GetAnalysis(ctx context.Context, id common.ID) (*Result, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Options
// ─────────────────────────────────────────────────────────────────────────────

// Option configures the service at construction time.
type Option func(*options)

type options struct {
	dict        *dictionary.Dictionary
	table       dictionary.TierTable
	calibration config.CalibrationConfig
	concurrency int
	cacheOff    bool
}

// WithDictionary replaces the embedded default dictionary and tier table.
func WithDictionary(dict *dictionary.Dictionary, table dictionary.TierTable) Option {
	return func(o *options) {
		o.dict = dict
		o.table = table
	}
}

// WithCalibration replaces the default calibration block.
func WithCalibration(cal config.CalibrationConfig) Option {
	return func(o *options) { o.calibration = cal }
}

// WithConcurrency bounds the analysis worker pool.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithoutCache disables result caching.
func WithoutCache() Option {
	return func(o *options) { o.cacheOff = true }
}

// ─────────────────────────────────────────────────────────────────────────────
// Service implementation
// ─────────────────────────────────────────────────────────────────────────────

type serviceImpl struct {
	counter     *phrase_counter.Counter
	classifier  favorability.Strategy
	engine      *risk_engine.Engine
	predictor   *outcome_predictor.Predictor
	repo        ResultRepository
	cache       ResultCache
	publisher   EventPublisher
	metrics     *prometheus.AppMetrics
	logger      logging.Logger
	concurrency int
	radius      int
	cacheOff    bool
}

// NewService wires the analysis pipeline.  repo, cache, publisher, and
// metrics may be nil; the corresponding step is skipped.
func NewService(repo ResultRepository, cache ResultCache, publisher EventPublisher, metrics *prometheus.AppMetrics, logger logging.Logger, opts ...Option) (Service, error) {
	o := options{
		dict:        dictionary.Default(),
		table:       dictionary.DefaultTierTable(),
		calibration: config.DefaultCalibration(),
		concurrency: config.DefaultWorkerConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	counter, err := phrase_counter.NewCounter(o.dict)
	if err != nil {
		return nil, err
	}
	engine, err := risk_engine.NewEngine(o.table, riskCalibration(o.calibration.Risk), logger)
	if err != nil {
		return nil, err
	}
	predictor, err := outcome_predictor.NewPredictor(predictionCalibration(o.calibration.Prediction))
	if err != nil {
		return nil, err
	}

	return &serviceImpl{
		counter:     counter,
		classifier:  favorability.NewRuleClassifier(),
		engine:      engine,
		predictor:   predictor,
		repo:        repo,
		cache:       cache,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger.Named("analysis"),
		concurrency: o.concurrency,
		radius:      o.calibration.ContextRadius,
		cacheOff:    o.cacheOff,
	}, nil
}

// riskCalibration maps the config block onto the engine calibration.
func riskCalibration(c config.RiskCalibration) risk_engine.Calibration {
	return risk_engine.Calibration{
		HighWeight:      c.HighWeight,
		MediumWeight:    c.MediumWeight,
		LowWeight:       c.LowWeight,
		HighThreshold:   c.HighThreshold,
		MediumThreshold: c.MediumThreshold,
		TSBoost:         c.TSBoost,
		TSJBoost:        c.TSJBoost,
	}
}

// predictionCalibration maps the config block onto the predictor calibration.
func predictionCalibration(c config.PredictionCalibration) outcome_predictor.Calibration {
	return outcome_predictor.Calibration{
		TSWeight:          c.TSWeight,
		TSJWeight:         c.TSJWeight,
		OtherWeight:       c.OtherWeight,
		MinReliableSample: c.MinReliableSample,
		UncertaintyFactor: c.UncertaintyFactor,
		ClampHighTrigger:  c.ClampHighTrigger,
		ClampHighValue:    c.ClampHighValue,
		ClampLowTrigger:   c.ClampLowTrigger,
		ClampLowValue:     c.ClampLowValue,
	}
}

// AnalyzeDocument runs the per-document slice of the pipeline.
func (s *serviceImpl) AnalyzeDocument(_ context.Context, doc document.Document) (*DocumentResult, error) {
	if doc.Content == "" {
		return nil, errors.Newf(errors.ErrCodeDocumentEmpty, "document %s has no content", doc.Name)
	}
	counts, occurrences := s.counter.CountWithContexts(doc.Content, s.radius)
	return &DocumentResult{
		DocumentID:     doc.ID,
		Name:           doc.Name,
		Instance:       doc.Instance,
		Counts:         counts,
		Occurrences:    occurrences,
		Classification: s.classifier.Classify(doc.Content),
	}, nil
}

// AnalyzeCorpus runs the full pipeline over the corpus.
func (s *serviceImpl) AnalyzeCorpus(ctx context.Context, corpus *document.Corpus) (*Result, error) {
	if corpus == nil || len(corpus.Documents) == 0 {
		return nil, errors.New(errors.ErrCodeCorpusEmpty, "corpus has no documents")
	}

	start := time.Now()
	cacheKey := corpus.Hash()

	if cached, ok := s.lookupCache(ctx, cacheKey); ok {
		return cached, nil
	}

	docResults, skipped := s.fanOut(ctx, corpus.Documents)
	if len(docResults) == 0 {
		prometheus.RecordAnalysis(s.metrics, "corpus", false, time.Since(start))
		return nil, errors.New(errors.ErrCodeAnalysisAllSkipped, "every document in the corpus failed analysis").
			WithDetail(corpus.Name)
	}

	// Fan-in: merge per-document counts and tally instances.  Merging is
	// commutative, so worker completion order does not affect the result.
	aggregate := s.counter.Count("")
	var tally document.InstanceTally
	classified := make([]outcome_predictor.ClassifiedDocument, 0, len(docResults))
	for _, dr := range docResults {
		aggregate.Merge(dr.Counts)
		tally.Add(dr.Instance)
		classified = append(classified, outcome_predictor.ClassifiedDocument{
			Name:     dr.Name,
			Instance: dr.Instance,
			Outcome:  dr.Classification.Outcome,
			Rule:     dr.Classification.RuleID,
		})
	}

	score := s.engine.Assess(aggregate, tally)
	prediction := s.predictor.PredictWeighted(classified)
	report := insights.Build(score, prediction, aggregate)

	now := time.Now().UTC()
	result := &Result{
		BaseEntity: common.BaseEntity{ID: common.NewID(), CreatedAt: now, UpdatedAt: now},
		CorpusID:   corpus.ID,
		CorpusName: corpus.Name,
		CorpusHash: cacheKey,
		Documents:  docResults,
		Skipped:    skipped,
		Counts:     aggregate,
		Tally:      tally,
		Risk:       score,
		Prediction: prediction,
		Insights:   report,
		Duration:   time.Since(start),
	}

	s.persist(ctx, result)
	s.storeCache(ctx, cacheKey, result)
	s.publishCompleted(ctx, result)

	prometheus.RecordAnalysis(s.metrics, "corpus", true, result.Duration)
	prometheus.RecordRiskAssessment(s.metrics, string(score.Level), score.FinalScore)
	s.logger.Info("corpus analysed",
		logging.String("corpus", corpus.Name),
		logging.Int("documents", len(docResults)),
		logging.Int("skipped", len(skipped)),
		logging.String("level", string(score.Level)),
		logging.Float64("final_score", score.FinalScore),
		logging.Duration("duration", result.Duration))

	return result, nil
}

// GetAnalysis loads a persisted result.
func (s *serviceImpl) GetAnalysis(ctx context.Context, id common.ID) (*Result, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "no result repository configured")
	}
	return s.repo.FindByID(ctx, id)
}

// fanOut analyses documents over the worker pool and collects results in
// submission order.  Failed documents are reported in the skipped list.
func (s *serviceImpl) fanOut(ctx context.Context, docs []document.Document) ([]DocumentResult, []SkippedDocument) {
	type indexed struct {
		idx int
		doc document.Document
	}
	type outcome struct {
		idx    int
		result *DocumentResult
		err    error
	}

	workers := s.concurrency
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan indexed)
	outcomes := make(chan outcome, len(docs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				dr, err := s.AnalyzeDocument(ctx, job.doc)
				outcomes <- outcome{idx: job.idx, result: dr, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, doc := range docs {
			select {
			case jobs <- indexed{idx: i, doc: doc}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	ordered := make([]*DocumentResult, len(docs))
	failures := make([]error, len(docs))
	for out := range outcomes {
		ordered[out.idx] = out.result
		failures[out.idx] = out.err
	}

	var results []DocumentResult
	var skipped []SkippedDocument
	for i, dr := range ordered {
		if dr != nil {
			results = append(results, *dr)
			continue
		}
		reason := "análisis no completado"
		if failures[i] != nil {
			reason = failures[i].Error()
		}
		skipped = append(skipped, SkippedDocument{Name: docs[i].Name, Reason: reason})
		s.logger.Warn("document skipped",
			logging.String("document", docs[i].Name),
			logging.String("reason", reason))
	}
	return results, skipped
}

func (s *serviceImpl) lookupCache(ctx context.Context, key string) (*Result, bool) {
	if s.cache == nil || s.cacheOff {
		return nil, false
	}
	cached, found, err := s.cache.Get(ctx, key)
	prometheus.RecordCacheAccess(s.metrics, "analysis", found && err == nil)
	if err != nil {
		s.logger.Warn("cache lookup failed", logging.Err(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	cached.FromCache = true
	return cached, true
}

func (s *serviceImpl) storeCache(ctx context.Context, key string, result *Result) {
	if s.cache == nil || s.cacheOff {
		return
	}
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("cache store failed", logging.Err(err))
	}
}

func (s *serviceImpl) persist(ctx context.Context, result *Result) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, result); err != nil {
		s.logger.Error("failed to persist analysis result",
			logging.String("analysis_id", result.ID.String()), logging.Err(err))
		prometheus.RecordError(s.metrics, "analysis", string(errors.GetCode(err)))
	}
}

func (s *serviceImpl) publishCompleted(ctx context.Context, result *Result) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"analysis_id": result.ID,
		"corpus_id":   result.CorpusID,
		"corpus_hash": result.CorpusHash,
		"level":       result.Risk.Level,
		"final_score": result.Risk.FinalScore,
		"probability_favorable": result.Prediction.ProbabilityFavorable,
	})
	if err != nil {
		s.logger.Error("failed to encode analysis event", logging.Err(err))
		return
	}
	event := common.DomainEvent{
		EventID:    common.NewID(),
		EventType:  EventAnalysisCompleted,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish analysis event", logging.Err(err))
		prometheus.RecordError(s.metrics, "analysis", string(errors.GetCode(err)))
	}
}
