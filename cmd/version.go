package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped with -ldflags "-X github.com/abhisek/pmdrill/cmd.version=...".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pmdrill build version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "pmdrill %s\n", version)
		return err
	},
}
