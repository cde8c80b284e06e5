package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		answers, err := e.store.EventRepo().RecentAnswers(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		if len(answers) == 0 {
			fmt.Println("No answers recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-5s  %-10s  %-2s  %s\n", "Seq", "Timestamp", "Mode", "Question", "OK", "Answer")
		fmt.Println(strings.Repeat("─", 90))
		for _, a := range answers {
			ok := "✓"
			if !a.Correct {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-5s  %-10s  %-2s  %s\n",
				a.Sequence,
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				a.Mode,
				a.QuestionID,
				ok,
				a.LearnerAnswer,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of answers to show (0 for all)")
}
