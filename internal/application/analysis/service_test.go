package analysis

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/outcome_predictor"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type memoryRepo struct {
	mu    sync.Mutex
	saved map[common.ID]*Result
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{saved: make(map[common.ID]*Result)}
}

func (r *memoryRepo) Save(_ context.Context, result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[result.ID] = result
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id common.ID) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.saved[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
	}
	return result, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*Result
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*Result)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

type memoryPublisher struct {
	mu     sync.Mutex
	events []common.DomainEvent
}

func (p *memoryPublisher) Publish(_ context.Context, event common.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *memoryPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

const favorableJudgment = `SENTENCIA del Tribunal Superior de Justicia.
El trabajador, personal de limpieza, sufrió rotura del manguito rotador.
Interpuso reclamación previa ante el INSS solicitando incapacidad permanente parcial.
FALLAMOS: Que estimamos el recurso de suplicación interpuesto.`

const unfavorableJudgment = `SENTENCIA. Recurso de casación ante el Tribunal Supremo.
Se discute la lesión del supraespinoso y las lesiones permanentes derivadas.
FALLAMOS: Que desestimamos el recurso interpuesto por el demandante.`

func testCorpus(t *testing.T) *document.Corpus {
	t.Helper()
	corpus := document.NewCorpus("expediente-hombro")
	corpus.Add("tsj_madrid_2023.txt", favorableJudgment)
	corpus.Add("sts_451_2022.txt", unfavorableJudgment)
	corpus.Add("juzgado_social_3.txt", "Resolución del órgano gestor sobre el INSS.")
	return corpus
}

func newTestService(t *testing.T, repo ResultRepository, cache ResultCache, pub EventPublisher, opts ...Option) Service {
	t.Helper()
	svc, err := NewService(repo, cache, pub, nil, logging.NewNopLogger(), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestAnalyzeCorpusRejectsEmptyCorpus(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	_, err := svc.AnalyzeCorpus(context.Background(), document.NewCorpus("vacio"))
	if !errors.IsCode(err, errors.ErrCodeCorpusEmpty) {
		t.Errorf("AnalyzeCorpus(empty) = %v, want %s", err, errors.ErrCodeCorpusEmpty)
	}
}

func TestAnalyzeCorpusEndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	cache := newMemoryCache()
	pub := &memoryPublisher{}
	svc := newTestService(t, repo, cache, pub)

	corpus := testCorpus(t)
	result, err := svc.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("AnalyzeCorpus: %v", err)
	}

	if len(result.Documents) != 3 || len(result.Skipped) != 0 {
		t.Errorf("documents=%d skipped=%d, want 3/0", len(result.Documents), len(result.Skipped))
	}
	if result.Tally != (document.InstanceTally{TS: 1, TSJ: 1, Other: 1}) {
		t.Errorf("tally = %+v", result.Tally)
	}
	if result.Counts["inss"] < 2 {
		t.Errorf("aggregated inss count = %d, want at least 2", result.Counts["inss"])
	}
	if result.Risk.FinalScore <= 0 {
		t.Errorf("final score = %g, want positive", result.Risk.FinalScore)
	}

	// One favorable, one unfavorable, one unclassified document: the
	// predictor sees two classified documents and dampens.
	if result.Prediction.Explanation.FavorableCount != 1 ||
		result.Prediction.Explanation.UnfavorableCount != 1 {
		t.Errorf("classified counts = %+v", result.Prediction.Explanation)
	}
	if result.Prediction.Explanation.RuleApplied != outcome_predictor.RuleDampened {
		t.Errorf("prediction rule = %s, want dampened at 2 classified documents",
			result.Prediction.Explanation.RuleApplied)
	}

	if result.Insights.Interpretation == "" || len(result.Insights.Recommendations) == 0 {
		t.Error("insight report is incomplete")
	}
	if len(repo.saved) != 1 {
		t.Errorf("persisted results = %d, want 1", len(repo.saved))
	}
	if pub.count() != 1 {
		t.Errorf("published events = %d, want 1", pub.count())
	}
	if pub.events[0].EventType != EventAnalysisCompleted {
		t.Errorf("event type = %s", pub.events[0].EventType)
	}
}

func TestAnalyzeCorpusServesFromCache(t *testing.T) {
	repo := newMemoryRepo()
	cache := newMemoryCache()
	svc := newTestService(t, repo, cache, nil)

	corpus := testCorpus(t)
	first, err := svc.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("first AnalyzeCorpus: %v", err)
	}
	if first.FromCache {
		t.Error("first run should not come from cache")
	}

	second, err := svc.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("second AnalyzeCorpus: %v", err)
	}
	if !second.FromCache {
		t.Error("second run should be served from cache")
	}
	if len(repo.saved) != 1 {
		t.Errorf("persisted results = %d, cache hit should not persist again", len(repo.saved))
	}
}

func TestAnalyzeCorpusWithoutCache(t *testing.T) {
	cache := newMemoryCache()
	svc := newTestService(t, nil, cache, nil, WithoutCache())

	if _, err := svc.AnalyzeCorpus(context.Background(), testCorpus(t)); err != nil {
		t.Fatalf("AnalyzeCorpus: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Errorf("cache entries = %d, want 0 with caching disabled", len(cache.entries))
	}
}

func TestAnalyzeCorpusSkipsFailingDocuments(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	corpus := document.NewCorpus("parcial")
	corpus.Add("tsj_valida.txt", favorableJudgment)
	corpus.Add("vacia.txt", "")

	result, err := svc.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("AnalyzeCorpus: %v", err)
	}
	if len(result.Documents) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("documents=%d skipped=%d, want 1/1", len(result.Documents), len(result.Skipped))
	}
	if result.Skipped[0].Name != "vacia.txt" || result.Skipped[0].Reason == "" {
		t.Errorf("skipped = %+v", result.Skipped[0])
	}
	// Only the analysable document is tallied.
	if result.Tally.Total() != 1 {
		t.Errorf("tally total = %d, want 1", result.Tally.Total())
	}
}

func TestAnalyzeCorpusAllSkipped(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	corpus := document.NewCorpus("irrecuperable")
	corpus.Add("a.txt", "")
	corpus.Add("b.txt", "")

	_, err := svc.AnalyzeCorpus(context.Background(), corpus)
	if !errors.IsCode(err, errors.ErrCodeAnalysisAllSkipped) {
		t.Errorf("AnalyzeCorpus = %v, want %s", err, errors.ErrCodeAnalysisAllSkipped)
	}
}

func TestAnalyzeCorpusConcurrencyInvariant(t *testing.T) {
	corpus := testCorpus(t)

	serial := newTestService(t, nil, nil, nil, WithConcurrency(1))
	parallel := newTestService(t, nil, nil, nil, WithConcurrency(8))

	a, err := serial.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	b, err := parallel.AnalyzeCorpus(context.Background(), corpus)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if !reflect.DeepEqual(a.Counts, b.Counts) {
		t.Errorf("counts differ by concurrency: %v vs %v", a.Counts, b.Counts)
	}
	if a.Risk.FinalScore != b.Risk.FinalScore {
		t.Errorf("final score differs by concurrency: %g vs %g", a.Risk.FinalScore, b.Risk.FinalScore)
	}
	if a.Prediction.ProbabilityFavorable != b.Prediction.ProbabilityFavorable {
		t.Errorf("probability differs by concurrency")
	}
	for i, dr := range a.Documents {
		if dr.Name != b.Documents[i].Name {
			t.Errorf("document order differs at %d: %s vs %s", i, dr.Name, b.Documents[i].Name)
		}
	}
}

func TestAnalyzeDocument(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	doc := document.NewDocument("tsj_madrid.txt", favorableJudgment)

	dr, err := svc.AnalyzeDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if dr.Instance != document.InstanceTSJ {
		t.Errorf("instance = %s, want tsj", dr.Instance)
	}
	if dr.Counts["lesiones_hombro"] == 0 {
		t.Error("lesiones_hombro should match the judgment text")
	}
	if dr.Classification.Outcome != outcome_predictor.OutcomeFavorable {
		t.Errorf("classification = %+v", dr.Classification)
	}
	if len(dr.Occurrences) == 0 {
		t.Error("occurrences should carry context snippets")
	}
}

func TestAnalyzeDocumentRejectsEmptyContent(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	_, err := svc.AnalyzeDocument(context.Background(), document.Document{Name: "vacia.txt"})
	if !errors.IsCode(err, errors.ErrCodeDocumentEmpty) {
		t.Errorf("AnalyzeDocument(empty) = %v, want %s", err, errors.ErrCodeDocumentEmpty)
	}
}

func TestGetAnalysis(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo, nil, nil)

	result, err := svc.AnalyzeCorpus(context.Background(), testCorpus(t))
	if err != nil {
		t.Fatalf("AnalyzeCorpus: %v", err)
	}

	loaded, err := svc.GetAnalysis(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if loaded.CorpusHash != result.CorpusHash {
		t.Errorf("loaded hash = %s, want %s", loaded.CorpusHash, result.CorpusHash)
	}

	_, err = svc.GetAnalysis(context.Background(), common.NewID())
	if !errors.IsCode(err, errors.ErrCodeAnalysisNotFound) {
		t.Errorf("GetAnalysis(unknown) = %v, want %s", err, errors.ErrCodeAnalysisNotFound)
	}
}
