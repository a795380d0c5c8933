// Package cli implements the wordbrain command-line interface: the
// interactive review session, catalog import, due-word listing, replay
// verification and the reminder daemon.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/wordbrain/internal/config"
	"github.com/example/wordbrain/internal/database"
	"github.com/example/wordbrain/internal/logger"
	"github.com/example/wordbrain/internal/memory"
	"github.com/example/wordbrain/internal/review"
	"github.com/example/wordbrain/internal/session"
)

var (
	debugFlag   bool
	jsonLogFlag bool
	userFlag    int64

	cfg   config.Config
	log   *slog.Logger
	model *memory.Model
	svc   *review.Service
)

var rootCmd = &cobra.Command{
	Use:           "wordbrain",
	Short:         "Vocabulary recall trainer",
	Long:          "wordbrain schedules vocabulary reviews with a forgetting-curve memory model\nand runs Brain Boost sessions that re-surface missed words.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		log = logger.New(logger.WithDebug(debugFlag), logger.WithJSON(jsonLogFlag))
		if userFlag != 0 {
			cfg.UserID = userFlag
		}

		params, err := config.LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}
		model, err = memory.New(params)
		if err != nil {
			return err
		}

		if err := database.Connect(); err != nil {
			return err
		}
		svc = review.NewService(model, review.Config{
			Session: session.Config{TargetRetention: cfg.TargetRetention},
		}, log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		database.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogFlag, "json-log", false, "log in JSON instead of pretty output")
	rootCmd.PersistentFlags().Int64Var(&userFlag, "user", 0, "learner ID (default from WORDBRAIN_USER_ID)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
