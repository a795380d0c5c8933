// Package memory implements the forgetting-curve memory model: pure functions
// that turn a graded recall outcome into updated stability / difficulty /
// retrievability numbers and a projected next interval.
//
// A Model is immutable after construction and safe for concurrent use. Every
// call is reproducible given identical inputs, which is what makes review-log
// replay deterministic.
package memory

import (
	"fmt"
	"math"
	"time"

	"github.com/example/wordbrain/pkg/models"
)

// Model evaluates the memory formulas for one parameter set.
type Model struct {
	p Params
}

// New creates a Model, validating the parameter set.
func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p}, nil
}

// Default returns a Model with DefaultParams.
func Default() *Model {
	return &Model{p: DefaultParams()}
}

// Params returns the model's parameter set.
func (m *Model) Params() Params {
	return m.p
}

// ColdStart initializes memory parameters for a never-reviewed word from its
// frequency rank. Common words start easy, rare words start hard. Ranks
// outside [1, MaxFrequencyRank] are clamped; the call never fails.
func (m *Model) ColdStart(frequencyRank int) (difficulty, stability, retrievability float64) {
	rank := frequencyRank
	if rank < 1 {
		rank = 1
	}
	if rank > models.MaxFrequencyRank {
		rank = models.MaxFrequencyRank
	}
	difficulty = clampDifficulty(2.0 + float64(rank)/models.MaxFrequencyRank*8.0)
	return difficulty, 0, 0
}

// Retrievability computes the forgetting curve R(t, S) = (1 + F·t/S)^-1.
// Returns 0 for a word with no stability. Strictly decreasing in elapsedDays.
func (m *Model) Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return 1.0 / (1.0 + m.p.ForgettingFactor*elapsedDays/stability)
}

// NextState applies a graded recall outcome to the current memory state and
// returns the updated state. The stored retrievability is the pre-update
// value: how well the word was actually remembered at the moment of this
// review. Negative daysElapsed (clock skew) is clamped to 0, never an error.
// Returns models.ErrInvalidGrade for grades outside {1, 2, 3, 4}.
//
// NextState is pure: it does not touch the state's date fields. Commit layers
// the date bookkeeping on top.
func (m *Model) NextState(current models.WordMemoryState, grade models.Grade, daysElapsed float64) (models.WordMemoryState, error) {
	if !grade.IsValid() {
		return models.WordMemoryState{}, fmt.Errorf("%w: %d", models.ErrInvalidGrade, int(grade))
	}
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	next := current
	r := m.Retrievability(daysElapsed, current.Stability)
	d := m.nextDifficulty(current.Difficulty, grade)

	var s float64
	switch {
	case current.Stability <= 0:
		// First review: S·(1+growth) cannot leave zero, seed by grade.
		s = m.p.InitialStability[grade-models.Again]
		if grade == models.Again {
			next.LapseCount++
		}
	case grade == models.Again:
		s = math.Min(current.Stability, m.lapseStability(d, current.Stability, r))
		next.LapseCount++
	default:
		s = current.Stability * (1 + m.growthFactor(d, current.Stability, r, grade))
	}

	next.Stability = math.Max(s, m.p.MinStability)
	next.Difficulty = d
	next.Retrievability = r
	next.ReviewCount++
	return next, nil
}

// NextInterval projects the days until retrievability decays to
// targetRetention: interval = S·factor·(1/r - 1). Monotonic: larger stability
// or smaller target retention means a larger interval. Returns
// ErrInvalidParameter when targetRetention is outside (0, 1).
func (m *Model) NextInterval(stability, targetRetention float64) (float64, error) {
	if targetRetention <= 0 || targetRetention >= 1 {
		return 0, fmt.Errorf("%w: target retention %f outside (0, 1)", ErrInvalidParameter, targetRetention)
	}
	return stability * m.p.IntervalFactor * (1.0/targetRetention - 1.0), nil
}

// Commit is the full graduation computation: NextState using wall-clock days
// since the state's last committed review, then the date bookkeeping
// (LastReviewDate = reviewDate, NextReviewDate = reviewDate + interval).
// Session graduation, immediate reviews and log replay all go through here,
// so a replayed log lands on the exact same state as the live path.
func (m *Model) Commit(current models.WordMemoryState, grade models.Grade, reviewDate time.Time, targetRetention float64) (models.WordMemoryState, error) {
	var elapsed float64
	if current.Reviewed() {
		elapsed = reviewDate.Sub(current.LastReviewDate).Hours() / 24.0
	}
	next, err := m.NextState(current, grade, elapsed)
	if err != nil {
		return models.WordMemoryState{}, err
	}
	interval, err := m.NextInterval(next.Stability, targetRetention)
	if err != nil {
		return models.WordMemoryState{}, err
	}
	next.LastReviewDate = reviewDate
	next.NextReviewDate = reviewDate.Add(time.Duration(interval * 24 * float64(time.Hour)))
	return next, nil
}

// nextDifficulty shifts difficulty by grade, applies mean reversion toward
// the global target and clamps to [1, 10].
func (m *Model) nextDifficulty(difficulty float64, grade models.Grade) float64 {
	raw := difficulty - m.p.DifficultyDelta*float64(grade-models.Good)
	blended := m.p.MeanReversionWeight*m.p.TargetDifficulty + (1-m.p.MeanReversionWeight)*raw
	return clampDifficulty(blended)
}

// growthFactor computes the stability growth after a pass. Monotonically
// decreasing in difficulty, increasing in (1 - R): a review close to the
// forgetting point earns a larger boost (the spacing effect).
func (m *Model) growthFactor(difficulty, stability, retrievability float64, grade models.Grade) float64 {
	g := math.Exp(m.p.GrowthRate) *
		(11 - difficulty) *
		math.Pow(stability, -m.p.StabilityDecay) *
		(math.Exp((1-retrievability)*m.p.RetrievabilitySpan) - 1)
	if grade == models.Hard {
		g *= m.p.HardPenalty
	}
	if grade == models.Easy {
		g *= m.p.EasyBonus
	}
	return g
}

// lapseStability computes post-lapse stability. The caller caps it at the
// pre-lapse stability: a lapse must never increase stability.
func (m *Model) lapseStability(difficulty, stability, retrievability float64) float64 {
	return m.p.LapseBase *
		math.Pow(difficulty, -m.p.LapseDifficultyDecay) *
		(math.Pow(stability+1, m.p.LapseStabilityPower) - 1) *
		math.Exp((1-retrievability)*m.p.LapseRetrievabilitySpan)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
