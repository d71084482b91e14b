// Package outcome_predictor estimates the probability of a favorable outcome
// from classified judgment documents, with instance weighting, small-sample
// dampening, and realism clamping.
package outcome_predictor

import (
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// Outcome is the favorability classification of a single document.
type Outcome string

const (
	OutcomeFavorable   Outcome = "favorable"
	OutcomeUnfavorable Outcome = "desfavorable"
	// OutcomeUnknown marks documents the classifier could not decide; they are
	// excluded from the weighted tallies but recorded in the explanation.
	OutcomeUnknown Outcome = "desconocido"
)

// ClassifiedDocument is the predictor's per-document input: the detected
// instance, the favorability flag, and the provenance of that flag.
type ClassifiedDocument struct {
	Name     string            `json:"name"`
	Instance document.Instance `json:"instance"`
	Outcome  Outcome           `json:"outcome"`
	// Rule identifies which classifier rule produced the outcome, so the
	// prediction explanation can state the provenance of every flag.
	Rule string `json:"rule,omitempty"`
}

// Rule names the adjustment path applied to the base probability.
type Rule string

const (
	RuleNeutral     Rule = "neutral"      // no data, probability pinned at 0.5
	RuleDampened    Rule = "dampened"     // small sample pulled toward 0.5
	RuleClampedHigh Rule = "clamped_high" // base above the realism ceiling
	RuleClampedLow  Rule = "clamped_low"  // base below the realism floor
	RuleDirect      Rule = "direct"       // base used unmodified
)

// Calibration holds the predictor tunables.
type Calibration struct {
	TSWeight          float64
	TSJWeight         float64
	OtherWeight       float64
	MinReliableSample int
	UncertaintyFactor float64
	ClampHighTrigger  float64
	ClampHighValue    float64
	ClampLowTrigger   float64
	ClampLowValue     float64
}

// DefaultCalibration returns the production calibration: instance weights
// 1.5/1.2/1.0, minimum reliable sample 3, uncertainty factor 0.3, clamps
// 0.90→0.85 and 0.10→0.15.
func DefaultCalibration() Calibration {
	return Calibration{
		TSWeight:          1.5,
		TSJWeight:         1.2,
		OtherWeight:       1.0,
		MinReliableSample: 3,
		UncertaintyFactor: 0.3,
		ClampHighTrigger:  0.90,
		ClampHighValue:    0.85,
		ClampLowTrigger:   0.10,
		ClampLowValue:     0.15,
	}
}

// Validate checks the calibration for internal consistency.
func (c Calibration) Validate() error {
	if c.TSWeight <= 0 || c.TSJWeight <= 0 || c.OtherWeight <= 0 {
		return errors.Newf(errors.ErrCodePredictionCalibration,
			"instance weights must be positive (ts=%g tsj=%g other=%g)",
			c.TSWeight, c.TSJWeight, c.OtherWeight)
	}
	if c.MinReliableSample < 1 {
		return errors.Newf(errors.ErrCodePredictionCalibration,
			"min reliable sample %d must be positive", c.MinReliableSample)
	}
	if c.UncertaintyFactor <= 0 || c.UncertaintyFactor >= 1 {
		return errors.Newf(errors.ErrCodePredictionCalibration,
			"uncertainty factor %g must be in (0, 1)", c.UncertaintyFactor)
	}
	if c.ClampHighTrigger <= c.ClampHighValue || c.ClampLowTrigger >= c.ClampLowValue {
		return errors.Newf(errors.ErrCodePredictionCalibration,
			"clamp bounds must satisfy trigger_high (%g) > value_high (%g) and trigger_low (%g) < value_low (%g)",
			c.ClampHighTrigger, c.ClampHighValue, c.ClampLowTrigger, c.ClampLowValue)
	}
	return nil
}

// Explanation records every input to the probability computation so the
// result can be reconstructed from the record alone.
type Explanation struct {
	FavorableCount      int     `json:"favorable_count"`
	UnfavorableCount    int     `json:"unfavorable_count"`
	UnknownCount        int     `json:"unknown_count"`
	WeightedFavorable   float64 `json:"weighted_favorable"`
	WeightedTotal       float64 `json:"weighted_total"`
	ProbabilityBase     float64 `json:"probability_base"`
	RuleApplied         Rule    `json:"rule_applied"`
	UncertaintyFactor   float64 `json:"uncertainty_factor,omitempty"`
	ClampTrigger        float64 `json:"clamp_trigger,omitempty"`
	MinReliableSample   int     `json:"min_reliable_sample"`
	InstanceFavorable   document.InstanceTally `json:"instance_favorable"`
	InstanceUnfavorable document.InstanceTally `json:"instance_unfavorable"`
	Note                string  `json:"note,omitempty"`
}

// Prediction is the immutable result of a probability estimate.
type Prediction struct {
	ProbabilityFavorable   float64     `json:"probability_favorable"`
	ProbabilityUnfavorable float64     `json:"probability_unfavorable"`
	Confidence             float64     `json:"confidence"`
	Explanation            Explanation `json:"explanation"`
}

// Predictor computes outcome predictions under a fixed calibration.
type Predictor struct {
	cal Calibration
}

// NewPredictor validates the calibration.
func NewPredictor(cal Calibration) (*Predictor, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{cal: cal}, nil
}

// weight returns the calibrated weight of a document instance.
func (p *Predictor) weight(i document.Instance) float64 {
	switch i {
	case document.InstanceTS:
		return p.cal.TSWeight
	case document.InstanceTSJ:
		return p.cal.TSJWeight
	default:
		return p.cal.OtherWeight
	}
}

// Predict estimates the favorable-outcome probability from unweighted counts.
// Every document carries weight 1.0.
func (p *Predictor) Predict(favorable, unfavorable int) Prediction {
	if favorable < 0 {
		favorable = 0
	}
	if unfavorable < 0 {
		unfavorable = 0
	}
	return p.finalize(favorable, unfavorable, 0,
		float64(favorable), float64(favorable+unfavorable),
		document.InstanceTally{Other: favorable}, document.InstanceTally{Other: unfavorable})
}

// PredictWeighted estimates the probability from classified documents,
// weighting each by its judicial instance.  Documents with OutcomeUnknown are
// excluded from the tallies and counted in the explanation.
func (p *Predictor) PredictWeighted(docs []ClassifiedDocument) Prediction {
	var (
		favorable, unfavorable, unknown int
		weightedFav, weightedTotal      float64
		favTally, unfavTally            document.InstanceTally
	)
	for _, d := range docs {
		switch d.Outcome {
		case OutcomeFavorable:
			favorable++
			favTally.Add(d.Instance)
			w := p.weight(d.Instance)
			weightedFav += w
			weightedTotal += w
		case OutcomeUnfavorable:
			unfavorable++
			unfavTally.Add(d.Instance)
			weightedTotal += p.weight(d.Instance)
		default:
			unknown++
		}
	}
	return p.finalize(favorable, unfavorable, unknown, weightedFav, weightedTotal, favTally, unfavTally)
}

// finalize applies the neutral / dampened / clamped / direct decision chain.
// The dampening and clamping paths are mutually exclusive, gated on the
// document count (not the weighted total).
func (p *Predictor) finalize(favorable, unfavorable, unknown int, weightedFav, weightedTotal float64, favTally, unfavTally document.InstanceTally) Prediction {
	total := favorable + unfavorable

	expl := Explanation{
		FavorableCount:      favorable,
		UnfavorableCount:    unfavorable,
		UnknownCount:        unknown,
		WeightedFavorable:   weightedFav,
		WeightedTotal:       weightedTotal,
		MinReliableSample:   p.cal.MinReliableSample,
		InstanceFavorable:   favTally,
		InstanceUnfavorable: unfavTally,
	}

	if total == 0 {
		expl.ProbabilityBase = 0.5
		expl.RuleApplied = RuleNeutral
		expl.Note = "sin datos de resoluciones clasificadas"
		return newPrediction(0.5, 0.0, expl)
	}

	base := weightedFav / weightedTotal
	expl.ProbabilityBase = base

	confidence := float64(total) / float64(p.cal.MinReliableSample)
	if confidence > 1.0 {
		confidence = 1.0
	}

	probability := base
	switch {
	case total < p.cal.MinReliableSample:
		probability = 0.5 + (base-0.5)*p.cal.UncertaintyFactor
		expl.RuleApplied = RuleDampened
		expl.UncertaintyFactor = p.cal.UncertaintyFactor
		expl.Note = "muestra insuficiente, estimación amortiguada hacia 0.5"
	case base > p.cal.ClampHighTrigger:
		probability = p.cal.ClampHighValue
		expl.RuleApplied = RuleClampedHigh
		expl.ClampTrigger = p.cal.ClampHighTrigger
	case base < p.cal.ClampLowTrigger:
		probability = p.cal.ClampLowValue
		expl.RuleApplied = RuleClampedLow
		expl.ClampTrigger = p.cal.ClampLowTrigger
	default:
		expl.RuleApplied = RuleDirect
	}

	return newPrediction(probability, confidence, expl)
}

func newPrediction(probability, confidence float64, expl Explanation) Prediction {
	return Prediction{
		ProbabilityFavorable:   probability,
		ProbabilityUnfavorable: 1 - probability,
		Confidence:             confidence,
		Explanation:            expl,
	}
}
