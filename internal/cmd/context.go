package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the resolved persistent flags of an
// invocation, so commands read them once instead of consulting
// global state.
type CommandContext struct {
	Verbose bool
	Format  string
	NoColor bool
}

// NewCommandContext extracts command context from cobra.Command flags.
// Commands call this at the top of their RunE function.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose: verbose,
		Format:  format,
		NoColor: noColor,
	}, nil
}
