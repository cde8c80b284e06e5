package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print every process by process group",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		for i, g := range e.session.Dataset().Flow() {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s (%d)\n", g.Name, len(g.Processes))
			for _, p := range g.Processes {
				fmt.Printf("  %-5s %-45s %s\n", p.ID, p.Name, p.KnowledgeArea)
			}
		}
		return nil
	},
}
