// Package review wires the memory model, the Brain Boost session queue and
// the persistence repositories together. It is the only component that
// requests persisted state updates; collaborators above it (CLI, reminder
// job) consume plain return values.
package review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/example/wordbrain/internal/database"
	"github.com/example/wordbrain/internal/memory"
	"github.com/example/wordbrain/internal/session"
	"github.com/example/wordbrain/pkg/models"
)

// Config holds service-level policy.
type Config struct {
	// Session is the Brain Boost re-queuing policy.
	Session session.Config
	// NewWordLimit caps how many never-seen words top up a session when
	// fewer due words than the session limit exist. 0 → 5.
	NewWordLimit int
}

func (c Config) withDefaults() Config {
	if c.NewWordLimit == 0 {
		c.NewWordLimit = 5
	}
	return c
}

// Service orchestrates review sessions and commits their outcomes.
type Service struct {
	model  *memory.Model
	cfg    Config
	words  *database.WordRepository
	states *database.MemoryStateRepository
	events *database.ReviewEventRepository
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a review service over the connected database.
func NewService(model *memory.Model, cfg Config, log *slog.Logger) *Service {
	return &Service{
		model:  model,
		cfg:    cfg.withDefaults(),
		words:  database.NewWordRepository(),
		states: database.NewMemoryStateRepository(),
		events: database.NewReviewEventRepository(),
		log:    log,
		now:    time.Now,
	}
}

// Session bundles a Brain Boost queue with the catalog words it covers.
type Session struct {
	Queue *session.Queue
	// Words maps word ID to catalog entry, for presentation.
	Words map[int64]models.Word
}

// StartSession builds a session queue for the learner: due words first (most
// overdue first), topped up with never-seen catalog words, each snapshotted
// at its last-committed state (or a cold start for new words).
func (s *Service) StartSession(ctx context.Context, userID int64, limit int) (*Session, error) {
	now := s.now()
	due, err := s.states.GetDueForUser(ctx, userID, now, limit)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.WordMemoryState, 0, limit)
	wordsByID := make(map[int64]models.Word)
	for _, state := range due {
		word, err := s.words.GetByID(ctx, state.WordID)
		if err != nil {
			return nil, err
		}
		wordsByID[word.ID] = *word
		snapshots = append(snapshots, state)
	}

	if remaining := limit - len(snapshots); remaining > 0 {
		topUp := min(remaining, s.cfg.NewWordLimit)
		fresh, err := s.words.ListNewForUser(ctx, userID, topUp)
		if err != nil {
			return nil, err
		}
		for _, word := range fresh {
			wordsByID[word.ID] = word
			snapshots = append(snapshots, s.coldStartState(userID, word))
		}
	}

	s.log.Debug("session built", "user", userID, "due", len(due), "total", len(snapshots))
	queue := session.New(s.model, &committer{ctx: ctx, svc: s}, s.cfg.Session, snapshots)
	return &Session{Queue: queue, Words: wordsByID}, nil
}

// committer is the per-session persistence adapter handed to the queue. The
// request context is bound at session start; the handoff itself is
// synchronous (spec: the core performs no asynchronous I/O).
type committer struct {
	ctx context.Context
	svc *Service
}

func (c *committer) CommitReview(state models.WordMemoryState, events []models.ReviewEvent) error {
	return c.svc.commit(c.ctx, state, events)
}

func (s *Service) commit(ctx context.Context, state models.WordMemoryState, events []models.ReviewEvent) error {
	if err := s.states.CreateOrUpdate(ctx, &state); err != nil {
		return err
	}
	if err := s.events.AppendBatch(ctx, events); err != nil {
		return err
	}
	s.log.Debug("review committed",
		"user", state.UserID, "word", state.WordID,
		"stability", state.Stability, "next_review", state.NextReviewDate)
	return nil
}

// ReviewImmediate commits a single graded review without Brain Boost
// re-queuing. This is the path for non-boosted review modes; unlike session
// graduation it can commit a failing grade, recording a lapse.
func (s *Service) ReviewImmediate(ctx context.Context, userID, wordID int64, grade models.Grade, duration time.Duration) (models.WordMemoryState, error) {
	snapshot, err := s.snapshot(ctx, userID, wordID)
	if err != nil {
		return models.WordMemoryState{}, err
	}
	now := s.now()
	next, err := s.model.Commit(snapshot, grade, now, s.sessionRetention())
	if err != nil {
		return models.WordMemoryState{}, err
	}
	var scheduled float64
	if snapshot.Reviewed() {
		scheduled = snapshot.NextReviewDate.Sub(snapshot.LastReviewDate).Hours() / 24.0
	}
	ev := models.NewReviewEvent(userID, wordID, grade, now, scheduled, duration, true)
	if err := s.commit(ctx, next, []models.ReviewEvent{ev}); err != nil {
		return models.WordMemoryState{}, err
	}
	return next, nil
}

// ReplayResult reports a replay verification.
type ReplayResult struct {
	Stored   models.WordMemoryState
	Replayed models.WordMemoryState
	Match    bool
}

// VerifyReplay rebuilds a word's memory state from its committed event log
// and compares it with the stored state. The two must agree: deterministic
// replay is the property any upstream replication or merge layer relies on.
func (s *Service) VerifyReplay(ctx context.Context, userID, wordID int64) (*ReplayResult, error) {
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.GetCommitted(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}
	replayed, err := s.model.Replay(userID, wordID, word.FrequencyRank, events, s.sessionRetention())
	if err != nil {
		return nil, err
	}
	stored, err := s.states.GetByUserAndWord(ctx, userID, wordID)
	if err != nil {
		return nil, err
	}
	return &ReplayResult{
		Stored:   *stored,
		Replayed: replayed,
		Match:    statesMatch(*stored, replayed),
	}, nil
}

// VerifyReplayAll verifies replay for every word the learner has committed
// state for, keyed by word ID.
func (s *Service) VerifyReplayAll(ctx context.Context, userID int64) (map[int64]*ReplayResult, error) {
	states, err := s.states.GetAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make(map[int64]*ReplayResult, len(states))
	for _, state := range states {
		result, err := s.VerifyReplay(ctx, userID, state.WordID)
		if err != nil {
			return nil, err
		}
		results[state.WordID] = result
	}
	return results, nil
}

// DueWord pairs a due memory state with its catalog entry.
type DueWord struct {
	Word  models.Word
	State models.WordMemoryState
}

// DueWords lists the learner's due words, most overdue first.
func (s *Service) DueWords(ctx context.Context, userID int64, limit int) ([]DueWord, error) {
	states, err := s.states.GetDueForUser(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, err
	}
	out := make([]DueWord, 0, len(states))
	for _, state := range states {
		word, err := s.words.GetByID(ctx, state.WordID)
		if err != nil {
			return nil, err
		}
		out = append(out, DueWord{Word: *word, State: state})
	}
	return out, nil
}

// Statistics returns aggregate progress statistics for the learner.
func (s *Service) Statistics(ctx context.Context, userID int64) (map[string]interface{}, error) {
	return s.states.GetUserStatistics(ctx, userID, s.now())
}

// snapshot loads the last-committed state, or a cold start when the word has
// never been committed.
func (s *Service) snapshot(ctx context.Context, userID, wordID int64) (models.WordMemoryState, error) {
	state, err := s.states.GetByUserAndWord(ctx, userID, wordID)
	switch {
	case err == nil:
		return *state, nil
	case errors.Is(err, sql.ErrNoRows):
		word, err := s.words.GetByID(ctx, wordID)
		if err != nil {
			return models.WordMemoryState{}, err
		}
		return s.coldStartState(userID, *word), nil
	default:
		return models.WordMemoryState{}, err
	}
}

func (s *Service) coldStartState(userID int64, word models.Word) models.WordMemoryState {
	difficulty, stability, retrievability := s.model.ColdStart(word.FrequencyRank)
	return models.WordMemoryState{
		UserID:         userID,
		WordID:         word.ID,
		Stability:      stability,
		Difficulty:     difficulty,
		Retrievability: retrievability,
	}
}

func (s *Service) sessionRetention() float64 {
	if r := s.cfg.Session.TargetRetention; r != 0 {
		return r
	}
	return memory.DefaultTargetRetention
}

// statesMatch compares the replay-relevant fields. Float drift beyond 1e-9
// or a timestamp shift beyond a second counts as a mismatch.
func statesMatch(a, b models.WordMemoryState) bool {
	const eps = 1e-9
	if math.Abs(a.Stability-b.Stability) > eps ||
		math.Abs(a.Difficulty-b.Difficulty) > eps ||
		math.Abs(a.Retrievability-b.Retrievability) > eps {
		return false
	}
	if a.ReviewCount != b.ReviewCount || a.LapseCount != b.LapseCount {
		return false
	}
	if delta := a.LastReviewDate.Sub(b.LastReviewDate); delta > time.Second || delta < -time.Second {
		return false
	}
	if delta := a.NextReviewDate.Sub(b.NextReviewDate); delta > time.Second || delta < -time.Second {
		return false
	}
	return true
}
