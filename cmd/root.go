package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kenroads/ntsabuddy/internal/config"
	"github.com/kenroads/ntsabuddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ntsabuddy",
	Short: "AI study buddy for the NTSA driving test",
	Long:  "NTSA Buddy is a terminal study assistant for the Kenyan driving theory test: topic notes, search, quizzes and an AI instructor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NTSABUDDY_DB env var)")
	rootCmd.PersistentFlags().String("config-dir", "", "Directory holding config.yaml (default $XDG_CONFIG_HOME/ntsabuddy and .)")
	rootCmd.Flags().Bool("skip-welcome", false, "Start on the topic list")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration, honouring --config-dir.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if dir, _ := cmd.Flags().GetString("config-dir"); dir != "" {
		return config.Load(dir)
	}
	return config.Load()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (NTSABUDDY_DB or config.yaml), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
