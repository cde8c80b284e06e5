package cmd

import (
	"fmt"

	"github.com/abhisek/pmdrill/internal/config"
	"github.com/abhisek/pmdrill/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pmdrill",
	Short: "PMBOK process drill for the terminal",
	Long:  "pmdrill — multiple-choice drills on the PMBOK processes: process groups, knowledge areas, sequence and ITTOs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PMDRILL_DB env var)")
	rootCmd.PersistentFlags().String("data", "", "Dataset file path or http(s) URL (overrides PMDRILL_DATA env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/pmdrill/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(ittoCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config (or the default one)
// and applies the --data flag on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if d, _ := cmd.Flags().GetString("data"); d != "" {
		cfg.DataSource = d
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid --data: %w", err)
		}
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (config file or PMDRILL_DB), then the default XDG
// path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
