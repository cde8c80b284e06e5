package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset streak and score to zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.session.ResetStats(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Stats reset.")
		return nil
	},
}
