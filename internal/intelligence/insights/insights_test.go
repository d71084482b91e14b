package insights

import (
	"math"
	"strings"
	"testing"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/outcome_predictor"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/phrase_counter"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/risk_engine"
)

func TestInterpretMentionsLevelAndScore(t *testing.T) {
	tests := []struct {
		level risk_engine.Level
		want  string
	}{
		{risk_engine.LevelAlto, "ALTO RIESGO"},
		{risk_engine.LevelMedio, "RIESGO LEGAL MODERADO"},
		{risk_engine.LevelBajo, "RIESGO LEGAL BAJO"},
	}
	for _, tt := range tests {
		score := risk_engine.Score{Level: tt.level, FinalScore: 315.9}
		got := Interpret(score)
		if !strings.Contains(got, tt.want) {
			t.Errorf("Interpret(%s) = %q, missing %q", tt.level, got, tt.want)
		}
		if !strings.Contains(got, "315.9") {
			t.Errorf("Interpret(%s) should interpolate the score", tt.level)
		}
	}
}

func TestForLevelNonEmptyForEveryLevel(t *testing.T) {
	for _, level := range []risk_engine.Level{risk_engine.LevelAlto, risk_engine.LevelMedio, risk_engine.LevelBajo} {
		recs := ForLevel(level)
		if len(recs) == 0 {
			t.Errorf("ForLevel(%s) is empty", level)
		}
		for _, r := range recs {
			if r.Title == "" || r.Description == "" || r.Priority == "" {
				t.Errorf("ForLevel(%s) has an incomplete recommendation: %+v", level, r)
			}
		}
	}
}

func TestForBandNonEmptyForEveryBand(t *testing.T) {
	for _, band := range []Band{BandFavorable, BandIncierta, BandDesfavorable} {
		if len(ForBand(band)) == 0 {
			t.Errorf("ForBand(%s) is empty", band)
		}
	}
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		probability float64
		want        Band
	}{
		{0.85, BandFavorable},
		{0.71, BandFavorable},
		{0.7, BandIncierta},
		{0.5, BandIncierta},
		{0.3, BandIncierta},
		{0.29, BandDesfavorable},
		{0.15, BandDesfavorable},
	}
	for _, tt := range tests {
		if got := BandOf(tt.probability); got != tt.want {
			t.Errorf("BandOf(%g) = %s, want %s", tt.probability, got, tt.want)
		}
	}
}

func TestForCategoryKnownAndUnknown(t *testing.T) {
	known := ForCategory("lesiones_hombro")
	if !strings.Contains(known.Description, "capacidad laboral") {
		t.Errorf("known category description = %q", known.Description)
	}
	unknown := ForCategory("categoria_inventada")
	if unknown.Description == "" {
		t.Error("unknown category should still produce a recommendation")
	}
}

func TestTrendsBanding(t *testing.T) {
	counts := phrase_counter.CategoryCounts{
		"muy_frecuente": 60,
		"intermedia":    25,
		"escasa":        5,
		"ausente":       0,
	}
	report := Trends(counts)

	byName := map[string]CategoryTrend{}
	for _, tr := range report.ByCategoryDesc {
		byName[tr.Category] = tr
	}

	high := byName["muy_frecuente"]
	if high.Frequency != "alta" || high.Trend != "creciente" || high.Impact != "alto" {
		t.Errorf("muy_frecuente = %+v", high)
	}
	mid := byName["intermedia"]
	if mid.Frequency != "media" || mid.Trend != "estable" || mid.Impact != "medio" {
		t.Errorf("intermedia = %+v", mid)
	}
	low := byName["escasa"]
	if low.Frequency != "baja" || low.Trend != "decreciente" || low.Impact != "bajo" {
		t.Errorf("escasa = %+v", low)
	}

	if report.Summary.MostFrequent != "muy_frecuente" {
		t.Errorf("MostFrequent = %q", report.Summary.MostFrequent)
	}
	if report.Summary.TotalCategories != 4 {
		t.Errorf("TotalCategories = %d, want 4", report.Summary.TotalCategories)
	}
	if len(report.Dominant) != 3 {
		t.Errorf("Dominant = %d entries, want 3", len(report.Dominant))
	}
	if math.Abs(report.Summary.AverageOccurrences-22.5) > 1e-9 {
		t.Errorf("AverageOccurrences = %g, want 22.5", report.Summary.AverageOccurrences)
	}
}

func TestTrendsEmptyCounts(t *testing.T) {
	report := Trends(phrase_counter.CategoryCounts{})
	if len(report.ByCategoryDesc) != 0 || len(report.Dominant) != 0 {
		t.Errorf("empty counts should produce an empty report, got %+v", report)
	}
}

func TestCorrelations(t *testing.T) {
	counts := phrase_counter.CategoryCounts{
		"a": 80,
		"b": 60, // 60/80 = 0.75 -> fuerte
		"c": 40, // 40/80 = 0.5 -> moderada; 40/60 ≈ 0.67 -> moderada
		"d": 0,  // excluded
	}
	got := Correlations(counts)

	if len(got) != 3 {
		t.Fatalf("got %d pairs, want 3 (zero-count category excluded)", len(got))
	}
	byPair := map[string]Correlation{}
	for _, c := range got {
		byPair[c.CategoryA+"/"+c.CategoryB] = c
	}
	ab := byPair["a/b"]
	if math.Abs(ab.Value-0.75) > 1e-9 || ab.Strength != "fuerte" {
		t.Errorf("a/b = %+v", ab)
	}
	ac := byPair["a/c"]
	if math.Abs(ac.Value-0.5) > 1e-9 || ac.Strength != "moderada" {
		t.Errorf("a/c = %+v", ac)
	}
}

func TestCorrelationStrengthBands(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.9, "fuerte"},
		{0.7, "moderada"}, // boundary is strict
		{0.5, "moderada"},
		{0.4, "débil"},
		{0.1, "débil"},
	}
	for _, tt := range tests {
		if got := correlationStrength(tt.value); got != tt.want {
			t.Errorf("correlationStrength(%g) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestKeyFactorsTopFiveWithPercentages(t *testing.T) {
	counts := phrase_counter.CategoryCounts{
		"a": 50, "b": 20, "c": 15, "d": 10, "e": 4, "f": 1, "vacia": 0,
	}
	factors := KeyFactors(counts)

	if len(factors) != 5 {
		t.Fatalf("got %d factors, want top 5", len(factors))
	}
	if factors[0].Category != "a" || factors[0].Total != 50 {
		t.Errorf("top factor = %+v", factors[0])
	}
	if math.Abs(factors[0].Percentage-50.0) > 1e-9 {
		t.Errorf("top percentage = %g, want 50", factors[0].Percentage)
	}
	if factors[0].Impact != "alto" {
		t.Errorf("impact of 50 occurrences = %s, want alto", factors[0].Impact)
	}
	for _, f := range factors {
		if f.Category == "vacia" {
			t.Error("zero-count category should be excluded from key factors")
		}
	}
}

func TestKeyFactorsEmptyCounts(t *testing.T) {
	if got := KeyFactors(phrase_counter.CategoryCounts{"a": 0}); got != nil {
		t.Errorf("KeyFactors with no occurrences = %v, want nil", got)
	}
}

func TestBuildAssemblesReport(t *testing.T) {
	score := risk_engine.Score{
		Level:      risk_engine.LevelAlto,
		FinalScore: 315.9,
		TierTotals: risk_engine.TierTotals{High: 18, Medium: 38, Low: 113},
		Contributions: []risk_engine.Contribution{
			{Category: "reclamacion_administrativa", Count: 18, Weighted: 54},
			{Category: "inss", Count: 113, Weighted: 113},
		},
	}
	prediction := outcome_predictor.Prediction{ProbabilityFavorable: 0.85}
	counts := phrase_counter.CategoryCounts{"reclamacion_administrativa": 18, "inss": 113}

	report := Build(score, prediction, counts)

	if report.ProbabilityBand != BandFavorable {
		t.Errorf("band = %s, want favorable", report.ProbabilityBand)
	}
	if !strings.Contains(report.Interpretation, "ALTO RIESGO") {
		t.Errorf("interpretation = %q", report.Interpretation)
	}
	// Level recommendations + band recommendations + dominant category.
	if len(report.Recommendations) != 5+2+1 {
		t.Errorf("recommendations = %d, want 8", len(report.Recommendations))
	}
	last := report.Recommendations[len(report.Recommendations)-1]
	if !strings.Contains(last.Title, "inss") {
		t.Errorf("dominant-category recommendation = %+v, want inss (113×1 > 18×3)", last)
	}
	if len(report.KeyFactors) != 2 {
		t.Errorf("key factors = %d, want 2", len(report.KeyFactors))
	}
}
