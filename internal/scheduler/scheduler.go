// Package scheduler runs the periodic due-word reminder job. It reads
// next_review_date as a read-only signal through the memory state
// repository's due counts and never touches memory state itself; when to
// actually ping an idle learner is the notifier's concern.
package scheduler

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wordbrain/internal/database"
)

// Default notification window (hours of day, inclusive).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers due-word reminders. Implementations decide the channel
// (terminal, chat, push).
type Notifier interface {
	SendReminder(userID int64, dueCount int) error
}

// Scheduler manages the recurring reminder check.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	states    *database.MemoryStateRepository
	log       *slog.Logger
}

// New creates a scheduler instance.
func New(notifier Notifier, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		states:    database.NewMemoryStateRepository(),
		log:       log,
	}
}

// Start begins the hourly reminder check without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders counts due words per learner and notifies those with
// work to do, but only inside the notification window.
func (s *Scheduler) checkAndSendReminders() {
	hour := time.Now().Hour()
	start := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	end := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)
	if hour < start || hour > end {
		s.log.Debug("outside notification hours, skipping reminders",
			"hour", hour, "start", start, "end", end)
		return
	}

	counts, err := s.states.DueCounts(context.Background(), time.Now())
	if err != nil {
		s.log.Error("failed to get due counts", "err", err)
		return
	}
	for userID, count := range counts {
		if count == 0 {
			continue
		}
		if err := s.notifier.SendReminder(userID, count); err != nil {
			s.log.Error("failed to send reminder", "user", userID, "err", err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific learner.
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	count, err := s.states.CountDue(ctx, userID, time.Now())
	if err != nil {
		return err
	}
	if count > 0 {
		return s.notifier.SendReminder(userID, count)
	}
	return nil
}

// envHour reads an hour-of-day override from the environment.
func envHour(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
