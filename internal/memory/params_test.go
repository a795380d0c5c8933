package memory

import (
	"errors"
	"testing"
)

func TestDefaultParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() = %v", err)
	}
}

func TestParamsValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero initial stability", func(p *Params) { p.InitialStability[2] = 0 }},
		{"negative initial stability", func(p *Params) { p.InitialStability[0] = -1 }},
		{"zero forgetting factor", func(p *Params) { p.ForgettingFactor = 0 }},
		{"zero interval factor", func(p *Params) { p.IntervalFactor = 0 }},
		{"zero min stability", func(p *Params) { p.MinStability = 0 }},
		{"hard penalty above one", func(p *Params) { p.HardPenalty = 1.2 }},
		{"easy bonus below one", func(p *Params) { p.EasyBonus = 0.8 }},
		{"mean reversion weight above one", func(p *Params) { p.MeanReversionWeight = 1.5 }},
		{"target difficulty out of range", func(p *Params) { p.TargetDifficulty = 12 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Validate() = %v, want ErrInvalidParameter", err)
			}
			if _, err := New(p); err == nil {
				t.Error("New() accepted invalid params")
			}
		})
	}
}
