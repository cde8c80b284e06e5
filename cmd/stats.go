package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show drill statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		s := e.session.Stats()
		fmt.Printf("Streak:    %d\n", s.Streak)
		fmt.Printf("Correct:   %d / %d\n", s.Correct, s.Total)
		fmt.Printf("Accuracy:  %.0f%%\n", s.Accuracy()*100)

		byMode, err := e.store.EventRepo().ModeAccuracy(cmd.Context())
		if err != nil {
			return fmt.Errorf("query mode accuracy: %w", err)
		}
		if len(byMode) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-34s  %8s  %s\n", "Mode", "Correct", "Accuracy")
		fmt.Println(strings.Repeat("─", 56))
		for _, ma := range byMode {
			title := ma.Mode
			if m, err := quiz.ParseMode(ma.Mode); err == nil {
				title = m.Title()
			}
			fmt.Printf("%-34s  %3d/%-4d  %.0f%%\n", title, ma.Correct, ma.Total, ma.Accuracy()*100)
		}
		return nil
	},
}
