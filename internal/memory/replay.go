package memory

import (
	"fmt"
	"sort"

	"github.com/example/wordbrain/pkg/models"
)

// Replay rebuilds a word's memory state from its review log, starting from a
// cold start at the given frequency rank. Only committed events mutate state;
// Brain Boost intermediate attempts are audit records and are skipped. The
// fold is deterministic: replaying the same ordered log always lands on the
// same state, which is what makes cross-device merge of review logs possible
// upstream.
//
// Events are sorted by review date before folding; an event for a different
// word returns ErrEventMismatch.
func (m *Model) Replay(userID, wordID int64, frequencyRank int, events []models.ReviewEvent, targetRetention float64) (models.WordMemoryState, error) {
	difficulty, stability, retrievability := m.ColdStart(frequencyRank)
	state := models.WordMemoryState{
		UserID:         userID,
		WordID:         wordID,
		Stability:      stability,
		Difficulty:     difficulty,
		Retrievability: retrievability,
	}

	ordered := make([]models.ReviewEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ReviewDate.Before(ordered[j].ReviewDate)
	})

	for _, ev := range ordered {
		if ev.WordID != wordID {
			return models.WordMemoryState{}, fmt.Errorf("%w: word %d, event %d", ErrEventMismatch, wordID, ev.WordID)
		}
		if !ev.Committed {
			continue
		}
		next, err := m.Commit(state, ev.Grade, ev.ReviewDate, targetRetention)
		if err != nil {
			return models.WordMemoryState{}, err
		}
		state = next
	}
	return state, nil
}
