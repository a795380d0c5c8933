package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbrain/internal/database"
	"github.com/example/wordbrain/pkg/models"
)

type recordingNotifier struct {
	reminders map[int64]int
}

func (n *recordingNotifier) SendReminder(userID int64, dueCount int) error {
	if n.reminders == nil {
		n.reminders = make(map[int64]int)
	}
	n.reminders[userID] = dueCount
	return nil
}

func seedDueState(t *testing.T, userID int64, text string, due time.Time) {
	t.Helper()
	ctx := context.Background()
	word := &models.Word{Text: text, Translation: "перевод", FrequencyRank: 1000}
	_, err := database.NewWordRepository().Upsert(ctx, word)
	require.NoError(t, err)

	state := models.WordMemoryState{
		UserID:         userID,
		WordID:         word.ID,
		Stability:      2.0,
		Difficulty:     5.0,
		ReviewCount:    1,
		LastReviewDate: due.Add(-48 * time.Hour),
		NextReviewDate: due,
	}
	require.NoError(t, database.NewMemoryStateRepository().CreateOrUpdate(ctx, &state))
}

func newTestScheduler(t *testing.T) (*Scheduler, *recordingNotifier) {
	t.Helper()
	require.NoError(t, database.ConnectTest())
	t.Cleanup(func() { database.Close() })
	notifier := &recordingNotifier{}
	return New(notifier, slog.New(slog.NewTextHandler(io.Discard, nil))), notifier
}

func TestRunManualCheckNotifiesWhenDue(t *testing.T) {
	sched, notifier := newTestScheduler(t)
	now := time.Now().UTC().Truncate(time.Second)
	seedDueState(t, 1, "house", now.Add(-time.Hour))
	seedDueState(t, 1, "window", now.Add(-2*time.Hour))

	require.NoError(t, sched.RunManualCheck(context.Background(), 1))
	assert.Equal(t, map[int64]int{1: 2}, notifier.reminders)
}

func TestRunManualCheckSilentWhenNothingDue(t *testing.T) {
	sched, notifier := newTestScheduler(t)
	now := time.Now().UTC().Truncate(time.Second)
	seedDueState(t, 1, "house", now.Add(72*time.Hour))

	require.NoError(t, sched.RunManualCheck(context.Background(), 1))
	assert.Empty(t, notifier.reminders)
}

func TestCheckAndSendRemindersPerLearner(t *testing.T) {
	sched, notifier := newTestScheduler(t)
	t.Setenv("NOTIFICATION_START_HOUR", "0")
	t.Setenv("NOTIFICATION_END_HOUR", "23")

	now := time.Now().UTC().Truncate(time.Second)
	seedDueState(t, 1, "house", now.Add(-time.Hour))
	seedDueState(t, 2, "river", now.Add(-time.Hour))
	seedDueState(t, 3, "tide", now.Add(72*time.Hour))

	sched.checkAndSendReminders()
	assert.Equal(t, map[int64]int{1: 1, 2: 1}, notifier.reminders)
}

func TestEnvHour(t *testing.T) {
	assert.Equal(t, 8, envHour("NOTIFICATION_START_HOUR", 8))

	t.Setenv("NOTIFICATION_START_HOUR", "10")
	assert.Equal(t, 10, envHour("NOTIFICATION_START_HOUR", 8))

	t.Setenv("NOTIFICATION_START_HOUR", "25")
	assert.Equal(t, 8, envHour("NOTIFICATION_START_HOUR", 8), "out-of-range hour falls back")

	t.Setenv("NOTIFICATION_START_HOUR", "noon")
	assert.Equal(t, 8, envHour("NOTIFICATION_START_HOUR", 8))
}
