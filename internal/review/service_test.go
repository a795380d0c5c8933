package review

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbrain/internal/database"
	"github.com/example/wordbrain/internal/memory"
	"github.com/example/wordbrain/pkg/models"
)

const testUser int64 = 1

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	require.NoError(t, database.ConnectTest())
	t.Cleanup(func() { database.Close() })

	clock := &testClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(memory.Default(), Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = clock.Now
	return svc, clock
}

func seedWord(t *testing.T, text string, rank int) *models.Word {
	t.Helper()
	word := &models.Word{Text: text, Translation: "перевод", FrequencyRank: rank}
	_, err := database.NewWordRepository().Upsert(context.Background(), word)
	require.NoError(t, err)
	return word
}

func TestStartSessionColdStart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	rare := seedWord(t, "threshold", 3100)
	common := seedWord(t, "house", 120)
	seedWord(t, "obelisk", 12000)

	sess, err := svc.StartSession(ctx, testUser, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Queue.Remaining())

	// No due words: the session tops up with never-seen words, most common
	// first, each at its cold-start state.
	wordID, ok := sess.Queue.Current()
	require.True(t, ok)
	assert.Equal(t, common.ID, wordID)
	assert.Contains(t, sess.Words, common.ID)
	assert.Contains(t, sess.Words, rare.ID)
}

func TestSessionGraduationPersists(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	word := seedWord(t, "lantern", 450)

	sess, err := svc.StartSession(ctx, testUser, 1)
	require.NoError(t, err)

	res, err := sess.Queue.Submit(models.Good)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConsecutivePasses)

	res, err = sess.Queue.Submit(models.Good)
	require.NoError(t, err)
	require.NotNil(t, res.Committed)

	stored, err := database.NewMemoryStateRepository().GetByUserAndWord(ctx, testUser, word.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.31, stored.Stability, 1e-9)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.True(t, stored.LastReviewDate.Equal(clock.Now()))

	history, err := database.NewReviewEventRepository().GetByUserAndWord(ctx, testUser, word.ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "the full session trail is persisted")
	assert.False(t, history[0].Committed)
	assert.True(t, history[1].Committed)

	result, err := svc.VerifyReplay(ctx, testUser, word.ID)
	require.NoError(t, err)
	assert.True(t, result.Match)
}

func TestStartSessionPrefersDueWords(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	studied := seedWord(t, "river", 800)
	fresh := seedWord(t, "estuary", 7400)

	_, err := svc.ReviewImmediate(ctx, testUser, studied.ID, models.Good, 0)
	require.NoError(t, err)

	// Three days later the studied word is overdue (interval was ~2.3 days).
	clock.Advance(3 * 24 * time.Hour)
	sess, err := svc.StartSession(ctx, testUser, 2)
	require.NoError(t, err)
	require.Equal(t, 2, sess.Queue.Remaining())

	wordID, ok := sess.Queue.Current()
	require.True(t, ok)
	assert.Equal(t, studied.ID, wordID, "due words come before new words")
	assert.Contains(t, sess.Words, fresh.ID)
}

func TestReviewImmediateLapse(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	word := seedWord(t, "gossamer", 15000)

	first, err := svc.ReviewImmediate(ctx, testUser, word.ID, models.Good, 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, first.LapseCount)

	clock.Advance(4 * 24 * time.Hour)
	lapsed, err := svc.ReviewImmediate(ctx, testUser, word.ID, models.Again, 6*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, lapsed.LapseCount)
	assert.Equal(t, 2, lapsed.ReviewCount)
	assert.LessOrEqual(t, lapsed.Stability, first.Stability, "a lapse never increases stability")

	events, err := database.NewReviewEventRepository().GetCommitted(ctx, testUser, word.ID)
	require.NoError(t, err)
	require.Len(t, events, 2, "immediate reviews commit every grade, fails included")
	assert.Equal(t, models.Again, events[1].Grade)
	assert.InDelta(t, first.NextReviewDate.Sub(first.LastReviewDate).Hours()/24.0, events[1].ScheduledDays, 1e-9)

	result, err := svc.VerifyReplay(ctx, testUser, word.ID)
	require.NoError(t, err)
	assert.True(t, result.Match, "replay must reproduce the lapse")
}

func TestVerifyReplayAll(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	words := []*models.Word{
		seedWord(t, "bread", 150),
		seedWord(t, "sourdough", 9000),
		seedWord(t, "rye", 4000),
	}

	for _, w := range words {
		_, err := svc.ReviewImmediate(ctx, testUser, w.ID, models.Good, 0)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}
	clock.Advance(5 * 24 * time.Hour)
	_, err := svc.ReviewImmediate(ctx, testUser, words[1].ID, models.Hard, 0)
	require.NoError(t, err)

	results, err := svc.VerifyReplayAll(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for wordID, result := range results {
		assert.True(t, result.Match, "word %d replay mismatch", wordID)
	}
}

func TestDueWords(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	word := seedWord(t, "shore", 900)
	seedWord(t, "cliff", 1400)

	_, err := svc.ReviewImmediate(ctx, testUser, word.ID, models.Good, 0)
	require.NoError(t, err)

	due, err := svc.DueWords(ctx, testUser, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "nothing due right after a review")

	clock.Advance(10 * 24 * time.Hour)
	due, err = svc.DueWords(ctx, testUser, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "shore", due[0].Word.Text)
	assert.Equal(t, word.ID, due[0].State.WordID)
}

func TestStatistics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	word := seedWord(t, "tide", 2100)

	_, err := svc.ReviewImmediate(ctx, testUser, word.ID, models.Easy, 0)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, stats["total_words"])
	assert.Equal(t, 0, stats["due_now"])
}
