package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/wordbrain/pkg/models"
)

// WordRepository handles database operations for the word catalog.
type WordRepository struct{}

// NewWordRepository creates a new repository instance.
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// GetByID returns a single catalog word.
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := DB.GetContext(ctx, &word, "SELECT * FROM words WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word %d: %w", id, err)
	}
	return &word, nil
}

// GetByText returns a catalog word by its text form.
func (r *WordRepository) GetByText(ctx context.Context, text string) (*models.Word, error) {
	var word models.Word
	err := DB.GetContext(ctx, &word, "SELECT * FROM words WHERE word = $1", text)
	if err != nil {
		return nil, fmt.Errorf("failed to get word %q: %w", text, err)
	}
	return &word, nil
}

// Count returns the catalog size.
func (r *WordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// ListNewForUser returns catalog words the user has no committed memory
// state for, most common first (frequency rank ascending).
func (r *WordRepository) ListNewForUser(ctx context.Context, userID int64, limit int) ([]models.Word, error) {
	var words []models.Word
	query := `
		SELECT w.* FROM words w
		WHERE NOT EXISTS (
			SELECT 1 FROM memory_states ms
			WHERE ms.word_id = w.id AND ms.user_id = $1
		)
		ORDER BY w.frequency_rank ASC
		LIMIT $2
	`
	if err := DB.SelectContext(ctx, &words, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list new words: %w", err)
	}
	return words, nil
}

// Upsert creates the word or updates its translation, examples and
// frequency rank, keyed by the word text. Reports whether a row was created.
func (r *WordRepository) Upsert(ctx context.Context, word *models.Word) (created bool, err error) {
	if Type() == "postgres" {
		query := `
			INSERT INTO words (word, translation, examples, frequency_rank)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (word) DO UPDATE SET
				translation = EXCLUDED.translation,
				examples = EXCLUDED.examples,
				frequency_rank = EXCLUDED.frequency_rank,
				updated_at = NOW()
			RETURNING id, (created_at = updated_at)
		`
		err = DB.QueryRowContext(ctx, query,
			word.Text, word.Translation, word.Examples, word.FrequencyRank,
		).Scan(&word.ID, &created)
		if err != nil {
			return false, fmt.Errorf("failed to upsert word %q: %w", word.Text, err)
		}
		return created, nil
	}

	// SQLite: probe first, then update or insert (no RETURNING with upsert).
	var existingID int64
	err = DB.QueryRowContext(ctx, "SELECT id FROM words WHERE word = $1", word.Text).Scan(&existingID)
	switch {
	case err == nil:
		word.ID = existingID
		_, err = DB.ExecContext(ctx, `
			UPDATE words SET
				translation = $1,
				examples = $2,
				frequency_rank = $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $4`,
			word.Translation, word.Examples, word.FrequencyRank, word.ID,
		)
		if err != nil {
			return false, fmt.Errorf("failed to update word %q: %w", word.Text, err)
		}
		return false, nil
	case errors.Is(err, sql.ErrNoRows):
		result, err := DB.ExecContext(ctx, `
			INSERT INTO words (word, translation, examples, frequency_rank)
			VALUES ($1, $2, $3, $4)`,
			word.Text, word.Translation, word.Examples, word.FrequencyRank,
		)
		if err != nil {
			return false, fmt.Errorf("failed to insert word %q: %w", word.Text, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("failed to get last insert ID: %w", err)
		}
		word.ID = id
		return true, nil
	default:
		return false, fmt.Errorf("failed to probe word %q: %w", word.Text, err)
	}
}
