package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/wordbrain/pkg/models"
)

// MemoryStateRepository handles database operations for committed word
// memory states. Rows exist only for words with at least one committed
// review; cold-start states live in memory until their first commit.
type MemoryStateRepository struct{}

// NewMemoryStateRepository creates a new repository instance.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

// GetByUserAndWord returns the committed state for a learner × word pair,
// or sql.ErrNoRows (wrapped) when the word has never been committed.
func (r *MemoryStateRepository) GetByUserAndWord(ctx context.Context, userID, wordID int64) (*models.WordMemoryState, error) {
	var state models.WordMemoryState
	err := DB.GetContext(ctx, &state,
		"SELECT * FROM memory_states WHERE user_id = $1 AND word_id = $2", userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory state: %w", err)
	}
	return &state, nil
}

// Exists reports whether a committed state exists for the pair.
func (r *MemoryStateRepository) Exists(ctx context.Context, userID, wordID int64) (bool, error) {
	_, err := r.GetByUserAndWord(ctx, userID, wordID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// GetDueForUser returns states due at the given time, most overdue first.
func (r *MemoryStateRepository) GetDueForUser(ctx context.Context, userID int64, now time.Time, limit int) ([]models.WordMemoryState, error) {
	var states []models.WordMemoryState
	query := `
		SELECT * FROM memory_states
		WHERE user_id = $1 AND next_review_date <= $2
		ORDER BY next_review_date ASC
		LIMIT $3
	`
	if err := DB.SelectContext(ctx, &states, query, userID, now, limit); err != nil {
		return nil, fmt.Errorf("failed to get due states: %w", err)
	}
	return states, nil
}

// GetAllForUser returns every committed state for the learner.
func (r *MemoryStateRepository) GetAllForUser(ctx context.Context, userID int64) ([]models.WordMemoryState, error) {
	var states []models.WordMemoryState
	err := DB.SelectContext(ctx, &states,
		"SELECT * FROM memory_states WHERE user_id = $1 ORDER BY word_id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory states: %w", err)
	}
	return states, nil
}

// CountDue returns the number of words due for the user at the given time.
func (r *MemoryStateRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM memory_states WHERE user_id = $1 AND next_review_date <= $2",
		userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due states: %w", err)
	}
	return count, nil
}

// DueCounts returns the number of due words per learner at the given time.
// Read-only nextReviewDate signal for the reminder scheduler.
func (r *MemoryStateRepository) DueCounts(ctx context.Context, now time.Time) (map[int64]int, error) {
	rows, err := DB.QueryContext(ctx,
		"SELECT user_id, COUNT(*) FROM memory_states WHERE next_review_date <= $1 GROUP BY user_id", now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			userID int64
			count  int
		)
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan due count: %w", err)
		}
		counts[userID] = count
	}
	return counts, rows.Err()
}

// CreateOrUpdate persists a committed state, keyed by (user_id, word_id).
func (r *MemoryStateRepository) CreateOrUpdate(ctx context.Context, state *models.WordMemoryState) error {
	if Type() == "postgres" {
		query := `
			INSERT INTO memory_states (
				user_id, word_id, stability, difficulty, retrievability,
				review_count, lapse_count, last_review_date, next_review_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (user_id, word_id) DO UPDATE SET
				stability = EXCLUDED.stability,
				difficulty = EXCLUDED.difficulty,
				retrievability = EXCLUDED.retrievability,
				review_count = EXCLUDED.review_count,
				lapse_count = EXCLUDED.lapse_count,
				last_review_date = EXCLUDED.last_review_date,
				next_review_date = EXCLUDED.next_review_date,
				updated_at = NOW()
			RETURNING id
		`
		err := DB.QueryRowContext(ctx, query,
			state.UserID, state.WordID, state.Stability, state.Difficulty, state.Retrievability,
			state.ReviewCount, state.LapseCount, state.LastReviewDate, state.NextReviewDate,
		).Scan(&state.ID)
		if err != nil {
			return fmt.Errorf("failed to upsert memory state: %w", err)
		}
		return nil
	}

	// SQLite: probe first, then update or insert.
	var existingID int64
	err := DB.QueryRowContext(ctx,
		"SELECT id FROM memory_states WHERE user_id = $1 AND word_id = $2",
		state.UserID, state.WordID).Scan(&existingID)
	switch {
	case err == nil:
		state.ID = existingID
		_, err = DB.ExecContext(ctx, `
			UPDATE memory_states SET
				stability = $1,
				difficulty = $2,
				retrievability = $3,
				review_count = $4,
				lapse_count = $5,
				last_review_date = $6,
				next_review_date = $7,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $8`,
			state.Stability, state.Difficulty, state.Retrievability,
			state.ReviewCount, state.LapseCount, state.LastReviewDate, state.NextReviewDate,
			state.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update memory state: %w", err)
		}
		return nil
	case errors.Is(err, sql.ErrNoRows):
		result, err := DB.ExecContext(ctx, `
			INSERT INTO memory_states (
				user_id, word_id, stability, difficulty, retrievability,
				review_count, lapse_count, last_review_date, next_review_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			state.UserID, state.WordID, state.Stability, state.Difficulty, state.Retrievability,
			state.ReviewCount, state.LapseCount, state.LastReviewDate, state.NextReviewDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert memory state: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %w", err)
		}
		state.ID = id
		return nil
	default:
		return fmt.Errorf("failed to probe memory state: %w", err)
	}
}

// GetUserStatistics returns aggregate statistics about a learner's progress.
func (r *MemoryStateRepository) GetUserStatistics(ctx context.Context, userID int64, now time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	if err := DB.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM memory_states WHERE user_id = $1", userID); err != nil {
		return nil, fmt.Errorf("failed to count states: %w", err)
	}
	stats["total_words"] = total

	due, err := r.CountDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats["due_now"] = due

	var avgStability float64
	if err := DB.GetContext(ctx, &avgStability,
		"SELECT COALESCE(AVG(stability), 0) FROM memory_states WHERE user_id = $1", userID); err != nil {
		return nil, fmt.Errorf("failed to average stability: %w", err)
	}
	stats["avg_stability"] = avgStability

	var avgDifficulty float64
	if err := DB.GetContext(ctx, &avgDifficulty,
		"SELECT COALESCE(AVG(difficulty), 0) FROM memory_states WHERE user_id = $1", userID); err != nil {
		return nil, fmt.Errorf("failed to average difficulty: %w", err)
	}
	stats["avg_difficulty"] = avgDifficulty

	var lapses int
	if err := DB.GetContext(ctx, &lapses,
		"SELECT COALESCE(SUM(lapse_count), 0) FROM memory_states WHERE user_id = $1", userID); err != nil {
		return nil, fmt.Errorf("failed to sum lapses: %w", err)
	}
	stats["total_lapses"] = lapses

	// A word with a month of stability is considered settled.
	var settled int
	if err := DB.GetContext(ctx, &settled,
		"SELECT COUNT(*) FROM memory_states WHERE user_id = $1 AND stability >= 30", userID); err != nil {
		return nil, fmt.Errorf("failed to count settled words: %w", err)
	}
	stats["settled"] = settled

	return stats, nil
}
