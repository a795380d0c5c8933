package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dueLimitFlag int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List words due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		words, err := svc.DueWords(cmd.Context(), cfg.UserID, dueLimitFlag)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			fmt.Println("No words due.")
			return nil
		}
		for _, dw := range words {
			fmt.Printf("%-20s due %s  stability %.1fd  lapses %d\n",
				dw.Word.Text,
				dw.State.NextReviewDate.Format("2006-01-02"),
				dw.State.Stability,
				dw.State.LapseCount)
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().IntVar(&dueLimitFlag, "limit", 50, "maximum words to list")
	rootCmd.AddCommand(dueCmd)
}
