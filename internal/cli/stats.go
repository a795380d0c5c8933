package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.Statistics(cmd.Context(), cfg.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("Words tracked:   %v\n", stats["total_words"])
		fmt.Printf("Due now:         %v\n", stats["due_now"])
		fmt.Printf("Settled (S≥30d): %v\n", stats["settled"])
		fmt.Printf("Avg stability:   %.1f days\n", stats["avg_stability"])
		fmt.Printf("Avg difficulty:  %.1f\n", stats["avg_difficulty"])
		fmt.Printf("Total lapses:    %v\n", stats["total_lapses"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
