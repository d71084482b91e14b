package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis layer
	AnalysesTotal        CounterVec
	AnalysisDuration     HistogramVec
	DocumentsProcessed   CounterVec
	DocumentsSkipped     CounterVec
	PhraseMatchesTotal   CounterVec
	AnalysisActiveWorkers GaugeVec

	// Scoring layer
	RiskScoreDistribution HistogramVec
	RiskLevelTotal        CounterVec
	PredictionRuleTotal   CounterVec

	// Dictionary layer
	DictionaryReloadsTotal CounterVec
	DictionaryCategories   GaugeVec

	// Infrastructure layer
	DBQueryDuration        HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageProcessDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultScoreBuckets            = []float64{0, 10, 25, 50, 75, 100, 150, 250, 500, 1000}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Analysis
	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Corpus analyses run", "trigger", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Corpus analysis duration", DefaultAnalysisDurationBuckets, "trigger")
	m.DocumentsProcessed = collector.RegisterCounter("documents_processed_total", "Documents processed", "instance")
	m.DocumentsSkipped = collector.RegisterCounter("documents_skipped_total", "Documents skipped during analysis", "reason")
	m.PhraseMatchesTotal = collector.RegisterCounter("phrase_matches_total", "Key phrase matches", "category")
	m.AnalysisActiveWorkers = collector.RegisterGauge("analysis_active_workers", "Active analysis workers")

	// Scoring
	m.RiskScoreDistribution = collector.RegisterHistogram("risk_score", "Final risk score distribution", DefaultScoreBuckets)
	m.RiskLevelTotal = collector.RegisterCounter("risk_level_total", "Risk classifications emitted", "level")
	m.PredictionRuleTotal = collector.RegisterCounter("prediction_rule_total", "Prediction rule applied", "rule")

	// Dictionary
	m.DictionaryReloadsTotal = collector.RegisterCounter("dictionary_reloads_total", "Phrase dictionary reloads", "status")
	m.DictionaryCategories = collector.RegisterGauge("dictionary_categories", "Categories in the active dictionary")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// Helpers.  Each tolerates a nil AppMetrics so callers without metrics wired
// stay no-ops.

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordAnalysis(metrics *AppMetrics, trigger string, success bool, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.AnalysesTotal.WithLabelValues(trigger, status).Inc()
	metrics.AnalysisDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func RecordRiskAssessment(metrics *AppMetrics, level string, finalScore float64) {
	if metrics == nil {
		return
	}
	metrics.RiskLevelTotal.WithLabelValues(level).Inc()
	metrics.RiskScoreDistribution.WithLabelValues().Observe(finalScore)
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordDBQuery(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("postgres", "query_error").Inc()
	}
}

func RecordDictionaryReload(metrics *AppMetrics, success bool, categories int) {
	if metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.DictionaryReloadsTotal.WithLabelValues(status).Inc()
	if success {
		metrics.DictionaryCategories.WithLabelValues().Set(float64(categories))
	}
}

func RecordError(metrics *AppMetrics, component, errorCode string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}
