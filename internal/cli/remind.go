package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/wordbrain/internal/scheduler"
)

// logNotifier delivers reminders to the terminal. A chat or push notifier
// would implement the same interface.
type logNotifier struct{}

func (logNotifier) SendReminder(userID int64, dueCount int) error {
	log.Info("words due for review", "user", userID, "count", dueCount)
	return nil
}

var remindOnceFlag bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the due-word reminder job",
	RunE: func(cmd *cobra.Command, args []string) error {
		sched := scheduler.New(logNotifier{}, log)
		if remindOnceFlag {
			return sched.RunManualCheck(cmd.Context(), cfg.UserID)
		}

		sched.Start()
		defer sched.Stop()
		fmt.Println("Reminder job running. Press Ctrl+C to stop.")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			log.Info("shutting down", "signal", sig.String())
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnceFlag, "once", false, "run a single check for the configured learner and exit")
	rootCmd.AddCommand(remindCmd)
}
