package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/example/wordbrain/internal/memory"
)

// FileParams mirrors memory.Params with pointer fields so the TOML file can
// override any subset of the defaults. Unset fields stay at their default.
type FileParams struct {
	InitialStability        *[]float64 `toml:"initial_stability"`
	DifficultyDelta         *float64   `toml:"difficulty_delta"`
	MeanReversionWeight     *float64   `toml:"mean_reversion_weight"`
	TargetDifficulty        *float64   `toml:"target_difficulty"`
	GrowthRate              *float64   `toml:"growth_rate"`
	StabilityDecay          *float64   `toml:"stability_decay"`
	RetrievabilitySpan      *float64   `toml:"retrievability_span"`
	HardPenalty             *float64   `toml:"hard_penalty"`
	EasyBonus               *float64   `toml:"easy_bonus"`
	LapseBase               *float64   `toml:"lapse_base"`
	LapseDifficultyDecay    *float64   `toml:"lapse_difficulty_decay"`
	LapseStabilityPower     *float64   `toml:"lapse_stability_power"`
	LapseRetrievabilitySpan *float64   `toml:"lapse_retrievability_span"`
	ForgettingFactor        *float64   `toml:"forgetting_factor"`
	IntervalFactor          *float64   `toml:"interval_factor"`
	MinStability            *float64   `toml:"min_stability"`
}

// LoadParams reads memory-model parameters from a TOML file, overlaying
// them on the defaults. A missing file is not an error; the result is
// validated either way.
func LoadParams(path string) (memory.Params, error) {
	params := memory.DefaultParams()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var file FileParams
			if _, err := toml.DecodeFile(path, &file); err != nil {
				return memory.Params{}, fmt.Errorf("failed to decode params file: %w", err)
			}
			if err := file.apply(&params); err != nil {
				return memory.Params{}, err
			}
		} else if !os.IsNotExist(err) {
			return memory.Params{}, fmt.Errorf("failed to stat params file: %w", err)
		}
	}
	if err := params.Validate(); err != nil {
		return memory.Params{}, err
	}
	return params, nil
}

func (f FileParams) apply(p *memory.Params) error {
	if f.InitialStability != nil {
		if len(*f.InitialStability) != 4 {
			return fmt.Errorf("%w: initial_stability needs 4 values (Again, Hard, Good, Easy), got %d",
				memory.ErrInvalidParameter, len(*f.InitialStability))
		}
		copy(p.InitialStability[:], *f.InitialStability)
	}
	setIf(&p.DifficultyDelta, f.DifficultyDelta)
	setIf(&p.MeanReversionWeight, f.MeanReversionWeight)
	setIf(&p.TargetDifficulty, f.TargetDifficulty)
	setIf(&p.GrowthRate, f.GrowthRate)
	setIf(&p.StabilityDecay, f.StabilityDecay)
	setIf(&p.RetrievabilitySpan, f.RetrievabilitySpan)
	setIf(&p.HardPenalty, f.HardPenalty)
	setIf(&p.EasyBonus, f.EasyBonus)
	setIf(&p.LapseBase, f.LapseBase)
	setIf(&p.LapseDifficultyDecay, f.LapseDifficultyDecay)
	setIf(&p.LapseStabilityPower, f.LapseStabilityPower)
	setIf(&p.LapseRetrievabilitySpan, f.LapseRetrievabilitySpan)
	setIf(&p.ForgettingFactor, f.ForgettingFactor)
	setIf(&p.IntervalFactor, f.IntervalFactor)
	setIf(&p.MinStability, f.MinStability)
	return nil
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
