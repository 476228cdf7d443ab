package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "phrasely",
	Short: "Spaced-repetition vocabulary trainer",
	Long:  "Phrasely schedules bilingual phrases for review and tracks how well you know each one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PHRASELY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/phrasely/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("group", "", "Review only this group")
	rootCmd.Flags().Int("limit", -1, "Maximum responses this session (0 = unlimited, default from config)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(leechesCmd)
	rootCmd.AddCommand(leechCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or PHRASELY_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
