package database

import (
	"context"
	"fmt"

	"github.com/example/wordbrain/pkg/models"
)

// ReviewEventRepository handles the append-only review event log. Events are
// immutable once written; there are no update or delete operations.
type ReviewEventRepository struct{}

// NewReviewEventRepository creates a new repository instance.
func NewReviewEventRepository() *ReviewEventRepository {
	return &ReviewEventRepository{}
}

const insertEventQuery = `
	INSERT INTO review_events (
		id, user_id, word_id, grade, review_date,
		scheduled_days, duration_ms, committed
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Append writes a single event.
func (r *ReviewEventRepository) Append(ctx context.Context, ev models.ReviewEvent) error {
	_, err := DB.ExecContext(ctx, insertEventQuery,
		ev.ID, ev.UserID, ev.WordID, ev.Grade, ev.ReviewDate,
		ev.ScheduledDays, ev.DurationMs, ev.Committed,
	)
	if err != nil {
		return fmt.Errorf("failed to append review event: %w", err)
	}
	return nil
}

// AppendBatch writes a session's event trail in one transaction, preserving
// order.
func (r *ReviewEventRepository) AppendBatch(ctx context.Context, events []models.ReviewEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, insertEventQuery,
			ev.ID, ev.UserID, ev.WordID, ev.Grade, ev.ReviewDate,
			ev.ScheduledDays, ev.DurationMs, ev.Committed,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to append review event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review events: %w", err)
	}
	return nil
}

// GetByUserAndWord returns the full event history for a word, oldest first.
func (r *ReviewEventRepository) GetByUserAndWord(ctx context.Context, userID, wordID int64) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	query := `
		SELECT * FROM review_events
		WHERE user_id = $1 AND word_id = $2
		ORDER BY review_date ASC, created_at ASC
	`
	if err := DB.SelectContext(ctx, &events, query, userID, wordID); err != nil {
		return nil, fmt.Errorf("failed to get review events: %w", err)
	}
	return events, nil
}

// GetCommitted returns only the committed events for a word, oldest first.
// This is the replay input: folding them through the memory model rebuilds
// the word's memory state.
func (r *ReviewEventRepository) GetCommitted(ctx context.Context, userID, wordID int64) ([]models.ReviewEvent, error) {
	var events []models.ReviewEvent
	query := `
		SELECT * FROM review_events
		WHERE user_id = $1 AND word_id = $2 AND committed
		ORDER BY review_date ASC, created_at ASC
	`
	if err := DB.SelectContext(ctx, &events, query, userID, wordID); err != nil {
		return nil, fmt.Errorf("failed to get committed events: %w", err)
	}
	return events, nil
}
