package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var replayAllFlag bool

var replayCmd = &cobra.Command{
	Use:   "replay [wordID]",
	Short: "Rebuild memory state from the review log and compare with storage",
	Long: "Replays the committed review events through the memory model and verifies\n" +
		"that the result matches the stored state. A mismatch means the log and the\n" +
		"live state have diverged.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayAllFlag {
			return verifyAll(cmd)
		}
		if len(args) != 1 {
			return fmt.Errorf("pass a word ID or --all")
		}
		wordID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid word ID %q", args[0])
		}
		result, err := svc.VerifyReplay(cmd.Context(), cfg.UserID, wordID)
		if err != nil {
			return err
		}
		printReplay(wordID, result.Match)
		if !result.Match {
			fmt.Printf("  stored:   S=%.4f D=%.4f reviews=%d lapses=%d\n",
				result.Stored.Stability, result.Stored.Difficulty,
				result.Stored.ReviewCount, result.Stored.LapseCount)
			fmt.Printf("  replayed: S=%.4f D=%.4f reviews=%d lapses=%d\n",
				result.Replayed.Stability, result.Replayed.Difficulty,
				result.Replayed.ReviewCount, result.Replayed.LapseCount)
			return fmt.Errorf("replay mismatch for word %d", wordID)
		}
		return nil
	},
}

func verifyAll(cmd *cobra.Command) error {
	results, err := svc.VerifyReplayAll(cmd.Context(), cfg.UserID)
	if err != nil {
		return err
	}
	mismatches := 0
	for wordID, result := range results {
		printReplay(wordID, result.Match)
		if !result.Match {
			mismatches++
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d of %d words failed replay verification", mismatches, len(results))
	}
	fmt.Printf("All %d words verified.\n", len(results))
	return nil
}

func printReplay(wordID int64, match bool) {
	if match {
		fmt.Printf("word %d: ok\n", wordID)
	} else {
		fmt.Printf("word %d: MISMATCH\n", wordID)
	}
}

func init() {
	replayCmd.Flags().BoolVar(&replayAllFlag, "all", false, "verify every word with committed state")
	rootCmd.AddCommand(replayCmd)
}
