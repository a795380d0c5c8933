package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/wordbrain/pkg/models"
)

var reviewLimitFlag int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run an interactive Brain Boost review session",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := reviewLimitFlag
		if limit == 0 {
			limit = cfg.SessionLimit
		}
		sess, err := svc.StartSession(cmd.Context(), cfg.UserID, limit)
		if err != nil {
			return err
		}
		if sess.Queue.Remaining() == 0 {
			fmt.Println("Nothing to review. Come back later.")
			return nil
		}

		fmt.Printf("Session started: %d cards. Grades: 1=Again 2=Hard 3=Good 4=Easy, q=quit.\n\n", sess.Queue.Remaining())
		scanner := bufio.NewScanner(os.Stdin)

		for {
			wordID, ok := sess.Queue.Current()
			if !ok {
				break
			}
			word := sess.Words[wordID]

			fmt.Printf("  %s\n", word.Text)
			fmt.Print("  [enter to reveal] ")
			if !scanner.Scan() {
				break
			}
			fmt.Printf("  → %s\n", word.Translation)
			if word.Examples != "" {
				fmt.Printf("    %s\n", word.Examples)
			}

			shown := time.Now()
			grade, quit := promptGrade(scanner)
			if quit {
				break
			}

			result, err := sess.Queue.SubmitTimed(grade, time.Since(shown))
			if err != nil {
				if errors.Is(err, models.ErrInvalidGrade) {
					fmt.Println("  grade must be 1-4")
					continue
				}
				return err
			}
			switch {
			case result.Committed != nil:
				fmt.Printf("  ✓ graduated, next review %s\n\n", result.Committed.NextReviewDate.Format("2006-01-02"))
			case result.ConsecutivePasses > 0:
				fmt.Print("  once more to lock it in\n\n")
			default:
				fmt.Print("  back in the queue\n\n")
			}
		}

		graduated, ended := sess.Queue.End()
		fmt.Printf("Session over: %d graduated, %d rolled over to next session.\n", graduated, ended)
		return nil
	},
}

// promptGrade reads a grade (1-4) or a quit signal from the learner.
func promptGrade(scanner *bufio.Scanner) (models.Grade, bool) {
	for {
		fmt.Print("  grade [1-4]: ")
		if !scanner.Scan() {
			return 0, true
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "q" || input == "quit" {
			return 0, true
		}
		n, err := strconv.Atoi(input)
		if err != nil || !models.Grade(n).IsValid() {
			fmt.Println("  grade must be 1-4 (or q to quit)")
			continue
		}
		return models.Grade(n), false
	}
}

func init() {
	reviewCmd.Flags().IntVar(&reviewLimitFlag, "limit", 0, "cards per session (default from WORDBRAIN_SESSION_LIMIT)")
	rootCmd.AddCommand(reviewCmd)
}
