package cmd

import (
	"github.com/abhisek/pmdrill/internal/config"
	"github.com/abhisek/pmdrill/internal/quiz"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a drill",
	Long:  "Start a drill in the given mode: group, ka, both, seq or itto. Without --mode the configured default is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("mode")
		if name == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			name = cfg.DefaultMode
		}
		mode, err := quiz.ParseMode(name)
		if err != nil {
			return err
		}
		return runApp(cmd, mode)
	},
}

func init() {
	playCmd.Flags().String("mode", "", "Drill mode (group|ka|both|seq|itto), default from config ("+config.DefaultConfig().DefaultMode+")")
}
