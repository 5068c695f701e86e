package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Submission wizard for the talent tracker",
	Long: `slate is a terminal client for creating talent submissions against the
tracker. It walks the dependent steps of a submission (intent, creatives,
project, staffing need, recipients, mandates, materials) with option lists
resolved live from the tracker, and creates projects, needs, and mandates
inline when the right row does not exist yet.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under a signal-aware context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}
