package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/pmdrill/internal/screens/itto"
	"github.com/spf13/cobra"
)

var ittoCmd = &cobra.Command{
	Use:   "itto",
	Short: "Manage imported ITTO data",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		fmt.Println(itto.Status(e.session.OverlayCount()))
		return nil
	},
}

var ittoImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace imported ITTO data with a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.session.ImportOverlay(cmd.Context(), string(data))
		if err != nil {
			return errors.New(itto.ImportFailure(err))
		}
		fmt.Println(itto.Status(n))
		return nil
	},
}

var ittoExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write imported ITTO data as JSON (stdout without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		text, err := e.session.ExportOverlay()
		if err != nil {
			return err
		}
		return writeOutput(args, text)
	},
}

var ittoTemplateCmd = &cobra.Command{
	Use:   "template [file]",
	Short: "Write an empty ITTO record for every process (stdout without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		text, err := e.session.Template()
		if err != nil {
			return err
		}
		return writeOutput(args, text)
	},
}

var ittoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all imported ITTO data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.session.ClearOverlay(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cleared imported ITTO data.")
		return nil
	},
}

// writeOutput writes text to args[0], or to stdout when no file is given.
func writeOutput(args []string, text string) error {
	if len(args) == 0 {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(args[0], []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	fmt.Fprintln(os.Stderr, "Wrote", args[0])
	return nil
}

func init() {
	ittoCmd.AddCommand(ittoImportCmd)
	ittoCmd.AddCommand(ittoExportCmd)
	ittoCmd.AddCommand(ittoTemplateCmd)
	ittoCmd.AddCommand(ittoClearCmd)
}
