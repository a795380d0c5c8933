package memory

import (
	"errors"
	"fmt"
)

// Sentinel errors for the memory package. Check with errors.Is.
var (
	ErrInvalidParameter = errors.New("wordbrain: parameter out of bounds")
	ErrEventMismatch    = errors.New("wordbrain: review event does not belong to word")
)

// DefaultTargetRetention is the recall probability the scheduler aims for
// when projecting the next interval.
const DefaultTargetRetention = 0.9

// Params holds every tuning constant of the memory model. The constants are
// implementation tuning parameters, not structural design: Validate checks
// only the structural invariants (positivity, penalty/bonus direction), not
// any particular reference values.
type Params struct {
	// InitialStability seeds stability on the first committed review,
	// indexed by grade (Again, Hard, Good, Easy).
	InitialStability [4]float64 `toml:"initial_stability"`

	// DifficultyDelta is the per-grade-step difficulty shift:
	// D_raw = D - DifficultyDelta·(grade - 3).
	DifficultyDelta float64 `toml:"difficulty_delta"`
	// MeanReversionWeight blends D_raw toward TargetDifficulty.
	MeanReversionWeight float64 `toml:"mean_reversion_weight"`
	// TargetDifficulty is the global difficulty the blend reverts toward.
	TargetDifficulty float64 `toml:"target_difficulty"`

	// GrowthRate scales stability growth after a pass (applied as e^rate).
	GrowthRate float64 `toml:"growth_rate"`
	// StabilityDecay damps growth for already-stable words (S^-decay).
	StabilityDecay float64 `toml:"stability_decay"`
	// RetrievabilitySpan rewards reviews close to the forgetting point:
	// the growth term carries e^((1-R)·span) - 1.
	RetrievabilitySpan float64 `toml:"retrievability_span"`
	// HardPenalty scales growth down for a Hard pass, in (0, 1].
	HardPenalty float64 `toml:"hard_penalty"`
	// EasyBonus scales growth up for an Easy pass, ≥ 1.
	EasyBonus float64 `toml:"easy_bonus"`

	// Lapse formula constants:
	// S_fail = LapseBase · D^(-LapseDifficultyDecay) ·
	//          ((S+1)^LapseStabilityPower - 1) · e^((1-R)·LapseRetrievabilitySpan)
	LapseBase               float64 `toml:"lapse_base"`
	LapseDifficultyDecay    float64 `toml:"lapse_difficulty_decay"`
	LapseStabilityPower     float64 `toml:"lapse_stability_power"`
	LapseRetrievabilitySpan float64 `toml:"lapse_retrievability_span"`

	// ForgettingFactor is F in the curve R = (1 + F·t/S)^-1.
	ForgettingFactor float64 `toml:"forgetting_factor"`
	// IntervalFactor is the multiplier in interval = S·factor·(1/r - 1).
	IntervalFactor float64 `toml:"interval_factor"`
	// MinStability is the floor applied after every update.
	MinStability float64 `toml:"min_stability"`
}

// DefaultParams returns the default tuning constants.
func DefaultParams() Params {
	return Params{
		InitialStability:        [4]float64{0.21, 1.29, 2.31, 8.3},
		DifficultyDelta:         0.65,
		MeanReversionWeight:     0.05,
		TargetDifficulty:        5.0,
		GrowthRate:              1.87,
		StabilityDecay:          0.17,
		RetrievabilitySpan:      0.8,
		HardPenalty:             0.6,
		EasyBonus:               1.87,
		LapseBase:               1.48,
		LapseDifficultyDecay:    0.06,
		LapseStabilityPower:     0.26,
		LapseRetrievabilitySpan: 1.65,
		ForgettingFactor:        19.0,
		IntervalFactor:          9.0,
		MinStability:            0.1,
	}
}

// Validate checks the structural invariants of the parameter set.
func (p Params) Validate() error {
	for i, s := range p.InitialStability {
		if s <= 0 {
			return fmt.Errorf("%w: initial_stability[%d] = %f, must be positive", ErrInvalidParameter, i, s)
		}
	}
	positives := map[string]float64{
		"growth_rate":               p.GrowthRate,
		"retrievability_span":       p.RetrievabilitySpan,
		"lapse_base":                p.LapseBase,
		"lapse_stability_power":     p.LapseStabilityPower,
		"lapse_retrievability_span": p.LapseRetrievabilitySpan,
		"forgetting_factor":         p.ForgettingFactor,
		"interval_factor":           p.IntervalFactor,
		"min_stability":             p.MinStability,
	}
	for name, v := range positives {
		if v <= 0 {
			return fmt.Errorf("%w: %s = %f, must be positive", ErrInvalidParameter, name, v)
		}
	}
	nonNegatives := map[string]float64{
		"difficulty_delta":       p.DifficultyDelta,
		"stability_decay":        p.StabilityDecay,
		"lapse_difficulty_decay": p.LapseDifficultyDecay,
	}
	for name, v := range nonNegatives {
		if v < 0 {
			return fmt.Errorf("%w: %s = %f, must not be negative", ErrInvalidParameter, name, v)
		}
	}
	if p.MeanReversionWeight < 0 || p.MeanReversionWeight > 1 {
		return fmt.Errorf("%w: mean_reversion_weight = %f, bounds [0, 1]", ErrInvalidParameter, p.MeanReversionWeight)
	}
	if p.TargetDifficulty < 1 || p.TargetDifficulty > 10 {
		return fmt.Errorf("%w: target_difficulty = %f, bounds [1, 10]", ErrInvalidParameter, p.TargetDifficulty)
	}
	if p.HardPenalty <= 0 || p.HardPenalty > 1 {
		return fmt.Errorf("%w: hard_penalty = %f, bounds (0, 1]", ErrInvalidParameter, p.HardPenalty)
	}
	if p.EasyBonus < 1 {
		return fmt.Errorf("%w: easy_bonus = %f, must be at least 1", ErrInvalidParameter, p.EasyBonus)
	}
	return nil
}
