package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crosstrainer",
	Short: "Cross and F2L planning trainer for speedcubers",
	Long: "crosstrainer serves cross scrambles by optimal move count, times inspection, " +
		"records practice attempts and schedules expert solves for spaced-repetition review.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/crosstrainer/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides CROSSTRAINER_DB env var)")
	pf.String("db-driver", "", "Database driver: sqlite or postgres")
	pf.String("db-dsn", "", "PostgreSQL connection string")
	pf.String("scrambles", "", "Directory holding cross_<n>_move.json scramble lists")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	addTrainerFlags(rootCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scrambleCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(solvesCmd)
	rootCmd.AddCommand(srsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
