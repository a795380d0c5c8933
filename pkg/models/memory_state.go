package models

import "time"

// WordMemoryState is the committed scheduling state for one learner × word
// pair. It is the single source of truth for scheduling: created in memory at
// first exposure (cold start), persisted and mutated only by a committed
// review, never deleted.
type WordMemoryState struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	WordID         int64     `json:"word_id" db:"word_id"`
	Stability      float64   `json:"stability" db:"stability"`           // days until recall decays toward the retention target
	Difficulty     float64   `json:"difficulty" db:"difficulty"`         // intrinsic recall resistance, [1, 10]
	Retrievability float64   `json:"retrievability" db:"retrievability"` // recall probability at the moment of the last review, [0, 1]
	ReviewCount    int       `json:"review_count" db:"review_count"`
	LapseCount     int       `json:"lapse_count" db:"lapse_count"`
	LastReviewDate time.Time `json:"last_review_date" db:"last_review_date"`
	NextReviewDate time.Time `json:"next_review_date" db:"next_review_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Reviewed reports whether the word has at least one committed review.
// A cold-start state has a zero LastReviewDate and zero stability.
func (s WordMemoryState) Reviewed() bool {
	return !s.LastReviewDate.IsZero()
}
