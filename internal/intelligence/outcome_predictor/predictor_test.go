package outcome_predictor

import (
	"math"
	"testing"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

const epsilon = 1e-9

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	p, err := NewPredictor(DefaultCalibration())
	if err != nil {
		t.Fatalf("NewPredictor: %v", err)
	}
	return p
}

func TestNewPredictorRejectsBadCalibration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Calibration)
	}{
		{"zero weight", func(c *Calibration) { c.TSJWeight = 0 }},
		{"zero sample", func(c *Calibration) { c.MinReliableSample = 0 }},
		{"uncertainty out of range", func(c *Calibration) { c.UncertaintyFactor = 1.0 }},
		{"inverted high clamp", func(c *Calibration) { c.ClampHighValue = 0.95 }},
		{"inverted low clamp", func(c *Calibration) { c.ClampLowValue = 0.05 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := DefaultCalibration()
			tt.mutate(&cal)
			_, err := NewPredictor(cal)
			if !errors.IsCode(err, errors.ErrCodePredictionCalibration) {
				t.Errorf("NewPredictor = %v, want %s", err, errors.ErrCodePredictionCalibration)
			}
		})
	}
}

func TestPredictNeutralOnEmptyInput(t *testing.T) {
	p := newTestPredictor(t)
	got := p.Predict(0, 0)

	if got.ProbabilityFavorable != 0.5 {
		t.Errorf("probability = %g, want 0.5", got.ProbabilityFavorable)
	}
	if got.Confidence != 0.0 {
		t.Errorf("confidence = %g, want 0.0", got.Confidence)
	}
	if got.Explanation.RuleApplied != RuleNeutral {
		t.Errorf("rule = %s, want %s", got.Explanation.RuleApplied, RuleNeutral)
	}
}

func TestPredictDampensSmallSamples(t *testing.T) {
	p := newTestPredictor(t)

	// One favorable document: base 1.0, dampened to 0.5 + 0.5×0.3 = 0.65.
	one := p.Predict(1, 0)
	if math.Abs(one.ProbabilityFavorable-0.65) > epsilon {
		t.Errorf("Predict(1,0) probability = %g, want 0.65", one.ProbabilityFavorable)
	}
	if one.Explanation.RuleApplied != RuleDampened {
		t.Errorf("rule = %s, want %s", one.Explanation.RuleApplied, RuleDampened)
	}
	if math.Abs(one.Confidence-1.0/3.0) > epsilon {
		t.Errorf("confidence = %g, want 1/3", one.Confidence)
	}

	// Two unfavorable documents: base 0.0, dampened to 0.5 - 0.5×0.3 = 0.35.
	two := p.Predict(0, 2)
	if math.Abs(two.ProbabilityFavorable-0.35) > epsilon {
		t.Errorf("Predict(0,2) probability = %g, want 0.35", two.ProbabilityFavorable)
	}
	if math.Abs(two.Confidence-2.0/3.0) > epsilon {
		t.Errorf("confidence = %g, want 2/3", two.Confidence)
	}
}

func TestPredictClampsOnlyAtReliableSample(t *testing.T) {
	p := newTestPredictor(t)

	// Three favorable documents: base 1.0 > 0.90, clamped to exactly 0.85.
	got := p.Predict(3, 0)
	if got.ProbabilityFavorable != 0.85 {
		t.Errorf("Predict(3,0) probability = %g, want 0.85", got.ProbabilityFavorable)
	}
	if got.Explanation.RuleApplied != RuleClampedHigh {
		t.Errorf("rule = %s, want %s", got.Explanation.RuleApplied, RuleClampedHigh)
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %g, want 1.0", got.Confidence)
	}

	// Three unfavorable: base 0.0 < 0.10, clamped to 0.15.
	low := p.Predict(0, 3)
	if low.ProbabilityFavorable != 0.15 {
		t.Errorf("Predict(0,3) probability = %g, want 0.15", low.ProbabilityFavorable)
	}
	if low.Explanation.RuleApplied != RuleClampedLow {
		t.Errorf("rule = %s, want %s", low.Explanation.RuleApplied, RuleClampedLow)
	}
}

func TestPredictClampBoundariesAreStrict(t *testing.T) {
	p := newTestPredictor(t)

	// 9 favorable of 10: base exactly 0.90 is not above the trigger.
	high := p.Predict(9, 1)
	if high.Explanation.RuleApplied != RuleDirect {
		t.Errorf("base 0.90 rule = %s, want %s", high.Explanation.RuleApplied, RuleDirect)
	}
	if math.Abs(high.ProbabilityFavorable-0.9) > epsilon {
		t.Errorf("base 0.90 probability = %g, want 0.9 untouched", high.ProbabilityFavorable)
	}

	// 1 favorable of 10: base exactly 0.10 is not below the trigger.
	lowBoundary := p.Predict(1, 9)
	if lowBoundary.Explanation.RuleApplied != RuleDirect {
		t.Errorf("base 0.10 rule = %s, want %s", lowBoundary.Explanation.RuleApplied, RuleDirect)
	}
	if math.Abs(lowBoundary.ProbabilityFavorable-0.1) > epsilon {
		t.Errorf("base 0.10 probability = %g, want 0.1 untouched", lowBoundary.ProbabilityFavorable)
	}
}

func TestPredictDirectPath(t *testing.T) {
	p := newTestPredictor(t)
	got := p.Predict(3, 2)
	if math.Abs(got.ProbabilityFavorable-0.6) > epsilon {
		t.Errorf("Predict(3,2) probability = %g, want 0.6", got.ProbabilityFavorable)
	}
	if got.Explanation.RuleApplied != RuleDirect {
		t.Errorf("rule = %s, want %s", got.Explanation.RuleApplied, RuleDirect)
	}
	if math.Abs(got.ProbabilityUnfavorable-0.4) > epsilon {
		t.Errorf("unfavorable = %g, want complement 0.4", got.ProbabilityUnfavorable)
	}
}

func TestPredictWeightedInstanceWeights(t *testing.T) {
	p := newTestPredictor(t)
	docs := []ClassifiedDocument{
		{Name: "sts_1.txt", Instance: document.InstanceTS, Outcome: OutcomeFavorable},
		{Name: "tsj_1.txt", Instance: document.InstanceTSJ, Outcome: OutcomeUnfavorable},
		{Name: "jsoc_1.txt", Instance: document.InstanceOther, Outcome: OutcomeFavorable},
	}
	got := p.PredictWeighted(docs)

	// Weighted favorable 1.5 + 1.0 = 2.5 over total 3.7.
	wantBase := 2.5 / 3.7
	if math.Abs(got.Explanation.ProbabilityBase-wantBase) > epsilon {
		t.Errorf("base = %g, want %g", got.Explanation.ProbabilityBase, wantBase)
	}
	if got.Explanation.RuleApplied != RuleDirect {
		t.Errorf("rule = %s, want %s", got.Explanation.RuleApplied, RuleDirect)
	}
	if math.Abs(got.ProbabilityFavorable-wantBase) > epsilon {
		t.Errorf("probability = %g, want base unmodified", got.ProbabilityFavorable)
	}
}

func TestPredictWeightedDampeningUsesWeightedBase(t *testing.T) {
	p := newTestPredictor(t)
	docs := []ClassifiedDocument{
		{Name: "sts_1.txt", Instance: document.InstanceTS, Outcome: OutcomeFavorable},
		{Name: "jsoc_1.txt", Instance: document.InstanceOther, Outcome: OutcomeUnfavorable},
	}
	got := p.PredictWeighted(docs)

	// Two documents gate the dampened path; the base stays weighted: 1.5/2.5.
	base := 1.5 / 2.5
	want := 0.5 + (base-0.5)*0.3
	if got.Explanation.RuleApplied != RuleDampened {
		t.Fatalf("rule = %s, want %s", got.Explanation.RuleApplied, RuleDampened)
	}
	if math.Abs(got.ProbabilityFavorable-want) > epsilon {
		t.Errorf("probability = %g, want %g", got.ProbabilityFavorable, want)
	}
}

func TestPredictWeightedExcludesUnknown(t *testing.T) {
	p := newTestPredictor(t)
	docs := []ClassifiedDocument{
		{Name: "a.txt", Instance: document.InstanceOther, Outcome: OutcomeFavorable},
		{Name: "b.txt", Instance: document.InstanceOther, Outcome: OutcomeUnknown},
		{Name: "c.txt", Instance: document.InstanceOther, Outcome: OutcomeUnknown},
	}
	got := p.PredictWeighted(docs)

	if got.Explanation.FavorableCount != 1 || got.Explanation.UnfavorableCount != 0 {
		t.Errorf("counts = %d/%d, want 1/0", got.Explanation.FavorableCount, got.Explanation.UnfavorableCount)
	}
	if got.Explanation.UnknownCount != 2 {
		t.Errorf("unknown = %d, want 2", got.Explanation.UnknownCount)
	}
	// Unknowns do not raise the sample size: still the dampened path.
	if got.Explanation.RuleApplied != RuleDampened {
		t.Errorf("rule = %s, want %s", got.Explanation.RuleApplied, RuleDampened)
	}
}

func TestPredictExplanationReconstruction(t *testing.T) {
	p := newTestPredictor(t)
	got := p.Predict(4, 1)

	e := got.Explanation
	base := e.WeightedFavorable / e.WeightedTotal
	if math.Abs(base-e.ProbabilityBase) > epsilon {
		t.Errorf("recorded base %g differs from weighted sums %g", e.ProbabilityBase, base)
	}
	if e.FavorableCount+e.UnfavorableCount != 5 {
		t.Errorf("recorded counts %d+%d, want total 5", e.FavorableCount, e.UnfavorableCount)
	}
	if e.MinReliableSample != 3 {
		t.Errorf("recorded sample threshold = %d, want 3", e.MinReliableSample)
	}
}

func TestPredictClampsNegativeInputs(t *testing.T) {
	p := newTestPredictor(t)
	got := p.Predict(-3, -1)
	if got.Explanation.RuleApplied != RuleNeutral {
		t.Errorf("negative counts should reduce to the neutral result, got %s", got.Explanation.RuleApplied)
	}
}
