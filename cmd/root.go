// Package cmd implements the dsacoach command-line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aman-dalan/AI-Hackathon/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dsacoach",
	Short: "AI coach for data structures and algorithms",
	Long: "dsacoach runs a web service where an AI mentor guides learners through " +
		"coding problems: approach first, then coding with hints, then a final evaluation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DSACOACH_DB_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveConfig loads configuration, letting the --db flag override the
// environment.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}
