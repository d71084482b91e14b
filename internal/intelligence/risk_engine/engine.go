// Package risk_engine computes the weighted legal risk score of a judgment
// corpus: tier-weighted base score, instance composition factor, final score,
// and discrete risk level.
package risk_engine

import (
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/dictionary"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/phrase_counter"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
)

// Level is the discrete risk classification of a corpus.
type Level string

const (
	LevelAlto  Level = "ALTO"
	LevelMedio Level = "MEDIO"
	LevelBajo  Level = "BAJO"
)

// Calibration holds the tunables of the risk computation.  All values must be
// positive; HighThreshold must exceed MediumThreshold.
type Calibration struct {
	HighWeight      float64
	MediumWeight    float64
	LowWeight       float64
	HighThreshold   float64
	MediumThreshold float64
	TSBoost         float64
	TSJBoost        float64
}

// DefaultCalibration returns the production calibration: tier weights 3/2/1,
// thresholds 100/50, instance boosts 0.5 (TS) and 0.2 (TSJ).
func DefaultCalibration() Calibration {
	return Calibration{
		HighWeight:      3,
		MediumWeight:    2,
		LowWeight:       1,
		HighThreshold:   100,
		MediumThreshold: 50,
		TSBoost:         0.5,
		TSJBoost:        0.2,
	}
}

// Validate checks the calibration for internal consistency.
func (c Calibration) Validate() error {
	if c.HighWeight <= 0 || c.MediumWeight <= 0 || c.LowWeight <= 0 {
		return errors.Newf(errors.ErrCodeRiskCalibration,
			"tier weights must be positive (high=%g medium=%g low=%g)",
			c.HighWeight, c.MediumWeight, c.LowWeight)
	}
	if c.MediumThreshold <= 0 || c.HighThreshold <= c.MediumThreshold {
		return errors.Newf(errors.ErrCodeRiskCalibration,
			"thresholds must satisfy high (%g) > medium (%g) > 0",
			c.HighThreshold, c.MediumThreshold)
	}
	if c.TSBoost < 0 || c.TSJBoost < 0 {
		return errors.Newf(errors.ErrCodeRiskCalibration,
			"instance boosts must be non-negative (ts=%g tsj=%g)", c.TSBoost, c.TSJBoost)
	}
	return nil
}

// TierTotals holds the per-tier occurrence sums.
type TierTotals struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Contribution records how much a single category added to the base score.
type Contribution struct {
	Category string              `json:"category"`
	Tier     dictionary.RiskTier `json:"tier"`
	Count    int                 `json:"count"`
	Weighted float64             `json:"weighted"`
}

// Score is the immutable result of a risk assessment.
type Score struct {
	BaseScore      float64                `json:"base_score"`
	InstanceFactor float64                `json:"instance_factor"`
	FinalScore     float64                `json:"final_score"`
	Level          Level                  `json:"level"`
	TierTotals     TierTotals             `json:"tier_totals"`
	Contributions  []Contribution         `json:"contributions"`
	Tally          document.InstanceTally `json:"instance_tally"`
}

// DominantCategory returns the category with the largest weighted
// contribution, or "" when there is none.
func (s Score) DominantCategory() string {
	best := ""
	bestWeighted := 0.0
	for _, c := range s.Contributions {
		if c.Weighted > bestWeighted {
			best = c.Category
			bestWeighted = c.Weighted
		}
	}
	return best
}

// Engine computes risk scores against a fixed tier table and calibration.
type Engine struct {
	table  dictionary.TierTable
	cal    Calibration
	logger logging.Logger
}

// NewEngine validates the tier table and calibration.  An empty tier table is
// a configuration error: a score computed without tiers would be meaningless.
func NewEngine(table dictionary.TierTable, cal Calibration, logger logging.Logger) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{table: table, cal: cal, logger: logger.Named("risk")}, nil
}

// weight returns the calibrated weight of a tier.
func (e *Engine) weight(tier dictionary.RiskTier) float64 {
	switch tier {
	case dictionary.TierHigh:
		return e.cal.HighWeight
	case dictionary.TierMedium:
		return e.cal.MediumWeight
	default:
		return e.cal.LowWeight
	}
}

// BaseScore sums count × tier weight over all categories.  A category in
// counts without a tier assignment contributes zero and is logged; negative
// counts clamp to zero.  The per-category contributions and tier totals are
// returned alongside the score for auditability.
func (e *Engine) BaseScore(counts phrase_counter.CategoryCounts) (float64, TierTotals, []Contribution) {
	var totals TierTotals
	var contributions []Contribution
	base := 0.0

	for category, count := range counts {
		if count < 0 {
			e.logger.Warn("negative category count clamped to zero",
				logging.String("category", category), logging.Int("count", count))
			count = 0
		}
		tier, ok := e.table[category]
		if !ok {
			e.logger.Warn("category has no tier assignment, contributes zero",
				logging.String("category", category))
			continue
		}
		switch tier {
		case dictionary.TierHigh:
			totals.High += count
		case dictionary.TierMedium:
			totals.Medium += count
		case dictionary.TierLow:
			totals.Low += count
		}
		weighted := float64(count) * e.weight(tier)
		base += weighted
		contributions = append(contributions, Contribution{
			Category: category,
			Tier:     tier,
			Count:    count,
			Weighted: weighted,
		})
	}
	return base, totals, contributions
}

// InstanceFactor computes 1.0 + TSBoost·ratio_ts + TSJBoost·ratio_tsj over
// the tallied documents.  An empty tally yields the neutral factor 1.0.
// Ratios are used at full precision; no intermediate rounding is applied.
func (e *Engine) InstanceFactor(tally document.InstanceTally) float64 {
	total := tally.Total()
	if total == 0 {
		return 1.0
	}
	ratioTS := float64(tally.TS) / float64(total)
	ratioTSJ := float64(tally.TSJ) / float64(total)
	return 1.0 + e.cal.TSBoost*ratioTS + e.cal.TSJBoost*ratioTSJ
}

// Classify maps a final score to its discrete level.
func (e *Engine) Classify(finalScore float64) Level {
	switch {
	case finalScore > e.cal.HighThreshold:
		return LevelAlto
	case finalScore > e.cal.MediumThreshold:
		return LevelMedio
	default:
		return LevelBajo
	}
}

// Assess runs the full risk computation for a corpus: base score from counts,
// instance factor from the document tally, final score, and level.
func (e *Engine) Assess(counts phrase_counter.CategoryCounts, tally document.InstanceTally) Score {
	base, totals, contributions := e.BaseScore(counts)
	factor := e.InstanceFactor(tally)
	final := base * factor

	return Score{
		BaseScore:      base,
		InstanceFactor: factor,
		FinalScore:     final,
		Level:          e.Classify(final),
		TierTotals:     totals,
		Contributions:  contributions,
		Tally:          tally,
	}
}
