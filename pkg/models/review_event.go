package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewEvent is an append-only log entry recording a single graded attempt.
// Events are immutable once created; the committed subset of a word's events
// is sufficient to rebuild its WordMemoryState deterministically.
type ReviewEvent struct {
	ID            string    `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	WordID        int64     `json:"word_id" db:"word_id"`
	Grade         Grade     `json:"grade" db:"grade"`
	ReviewDate    time.Time `json:"review_date" db:"review_date"`
	ScheduledDays float64   `json:"scheduled_days" db:"scheduled_days"` // days that were scheduled at the time of this review
	DurationMs    *int64    `json:"duration_ms,omitempty" db:"duration_ms"`
	// Committed marks the event that actually mutated long-term state.
	// Brain Boost intermediate attempts are recorded with Committed=false.
	Committed bool      `json:"committed" db:"committed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewReviewEvent creates an event with a fresh ID. A zero duration is stored
// as unknown (nil).
func NewReviewEvent(userID, wordID int64, grade Grade, reviewDate time.Time, scheduledDays float64, duration time.Duration, committed bool) ReviewEvent {
	ev := ReviewEvent{
		ID:            uuid.NewString(),
		UserID:        userID,
		WordID:        wordID,
		Grade:         grade,
		ReviewDate:    reviewDate,
		ScheduledDays: scheduledDays,
		Committed:     committed,
	}
	if duration > 0 {
		ms := duration.Milliseconds()
		ev.DurationMs = &ms
	}
	return ev
}
