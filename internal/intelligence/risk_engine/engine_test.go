package risk_engine

import (
	"math"
	"testing"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/phrase_counter"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

const epsilon = 1e-9

func testTable() dictionary.TierTable {
	return dictionary.TierTable{
		"alta":  dictionary.TierHigh,
		"media": dictionary.TierMedium,
		"baja":  dictionary.TierLow,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testTable(), DefaultCalibration(), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsEmptyTierTable(t *testing.T) {
	_, err := NewEngine(dictionary.TierTable{}, DefaultCalibration(), nil)
	if !errors.IsCode(err, errors.ErrCodeRiskTierTableEmpty) {
		t.Errorf("NewEngine(empty table) = %v, want %s", err, errors.ErrCodeRiskTierTableEmpty)
	}
}

func TestNewEngineRejectsBadCalibration(t *testing.T) {
	cal := DefaultCalibration()
	cal.HighThreshold = 40 // below MediumThreshold
	_, err := NewEngine(testTable(), cal, nil)
	if !errors.IsCode(err, errors.ErrCodeRiskCalibration) {
		t.Errorf("NewEngine(bad calibration) = %v, want %s", err, errors.ErrCodeRiskCalibration)
	}
}

func TestBaseScoreWeights(t *testing.T) {
	e := newTestEngine(t)
	counts := phrase_counter.CategoryCounts{"alta": 2, "media": 3, "baja": 5}
	base, totals, contributions := e.BaseScore(counts)

	if base != 2*3+3*2+5*1 {
		t.Errorf("base = %g, want 17", base)
	}
	if totals.High != 2 || totals.Medium != 3 || totals.Low != 5 {
		t.Errorf("totals = %+v", totals)
	}
	if len(contributions) != 3 {
		t.Errorf("contributions = %d entries, want 3", len(contributions))
	}
}

func TestBaseScoreIgnoresUnknownCategory(t *testing.T) {
	e := newTestEngine(t)
	counts := phrase_counter.CategoryCounts{"alta": 1, "desconocida": 99}
	base, _, contributions := e.BaseScore(counts)
	if base != 3 {
		t.Errorf("base = %g, unknown category should contribute zero", base)
	}
	for _, c := range contributions {
		if c.Category == "desconocida" {
			t.Error("unknown category should not appear in contributions")
		}
	}
}

func TestBaseScoreClampsNegativeCounts(t *testing.T) {
	e := newTestEngine(t)
	base, _, _ := e.BaseScore(phrase_counter.CategoryCounts{"alta": -4, "baja": 2})
	if base != 2 {
		t.Errorf("base = %g, negative count should clamp to zero", base)
	}
}

func TestInstanceFactor(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		name  string
		tally document.InstanceTally
		want  float64
	}{
		{"empty corpus is neutral", document.InstanceTally{}, 1.0},
		{"all other", document.InstanceTally{Other: 5}, 1.0},
		{"all ts hits the ceiling", document.InstanceTally{TS: 4}, 1.5},
		{"all tsj", document.InstanceTally{TSJ: 3}, 1.2},
		{"documented mix", document.InstanceTally{TS: 4, TSJ: 5, Other: 1}, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.InstanceFactor(tt.tally)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("InstanceFactor(%+v) = %g, want %g", tt.tally, got, tt.want)
			}
		})
	}
}

func TestInstanceFactorBounds(t *testing.T) {
	e := newTestEngine(t)
	tallies := []document.InstanceTally{
		{TS: 1}, {TSJ: 1}, {Other: 1},
		{TS: 3, TSJ: 2, Other: 5},
		{TS: 10, TSJ: 10},
	}
	for _, tally := range tallies {
		f := e.InstanceFactor(tally)
		if f < 1.0 || f > 1.5 {
			t.Errorf("InstanceFactor(%+v) = %g, outside [1.0, 1.5]", tally, f)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		score float64
		want  Level
	}{
		{315.9, LevelAlto},
		{100.0001, LevelAlto},
		{100, LevelMedio}, // threshold itself is not ALTO
		{50.0001, LevelMedio},
		{50, LevelBajo}, // threshold itself is not MEDIO
		{0, LevelBajo},
	}
	for _, tt := range tests {
		if got := e.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%g) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestAssessMonotonicInHighCounts(t *testing.T) {
	e := newTestEngine(t)
	tally := document.InstanceTally{TS: 1, Other: 2}
	counts := phrase_counter.CategoryCounts{"alta": 3, "media": 2, "baja": 1}

	previous := e.Assess(counts, tally).FinalScore
	for add := 1; add <= 5; add++ {
		counts["alta"]++
		current := e.Assess(counts, tally).FinalScore
		if current < previous {
			t.Fatalf("final score decreased from %g to %g when a HIGH count grew", previous, current)
		}
		previous = current
	}
}

func TestAssessEndToEndDocumentedScenario(t *testing.T) {
	// Tier totals HIGH=18, MEDIUM=38, LOW=113 over a 4 TS / 5 TSJ / 1 other mix.
	e := newTestEngine(t)
	counts := phrase_counter.CategoryCounts{"alta": 18, "media": 38, "baja": 113}
	tally := document.InstanceTally{TS: 4, TSJ: 5, Other: 1}

	score := e.Assess(counts, tally)
	if score.BaseScore != 243 {
		t.Errorf("BaseScore = %g, want 243", score.BaseScore)
	}
	if math.Abs(score.InstanceFactor-1.3) > epsilon {
		t.Errorf("InstanceFactor = %g, want 1.3", score.InstanceFactor)
	}
	if math.Abs(score.FinalScore-315.9) > 1e-6 {
		t.Errorf("FinalScore = %g, want 315.9", score.FinalScore)
	}
	if score.Level != LevelAlto {
		t.Errorf("Level = %s, want ALTO", score.Level)
	}
	if score.TierTotals != (TierTotals{High: 18, Medium: 38, Low: 113}) {
		t.Errorf("TierTotals = %+v", score.TierTotals)
	}
}

func TestAssessDegenerateCorpus(t *testing.T) {
	e := newTestEngine(t)
	score := e.Assess(phrase_counter.CategoryCounts{"alta": 10}, document.InstanceTally{})
	if score.InstanceFactor != 1.0 {
		t.Errorf("InstanceFactor = %g, want neutral 1.0 for empty tally", score.InstanceFactor)
	}
	if score.FinalScore != score.BaseScore {
		t.Errorf("FinalScore = %g, want equal to base %g", score.FinalScore, score.BaseScore)
	}
}

func TestDominantCategory(t *testing.T) {
	e := newTestEngine(t)
	score := e.Assess(phrase_counter.CategoryCounts{"alta": 2, "baja": 50}, document.InstanceTally{Other: 1})
	if got := score.DominantCategory(); got != "baja" {
		t.Errorf("DominantCategory = %s, want baja (50×1 > 2×3)", got)
	}
	empty := e.Assess(phrase_counter.CategoryCounts{}, document.InstanceTally{})
	if got := empty.DominantCategory(); got != "" {
		t.Errorf("DominantCategory of empty counts = %q, want empty", got)
	}
}
