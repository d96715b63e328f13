// Package cmd implements the gh-boardkit command line: generate, templates, presets and check-scopes.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = NewRootCmd()

// NewRootCmd builds the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gh-boardkit",
		Short:         "Generate labels, issues and a project board from a template",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewGenerateCmd(), NewTemplatesCmd(), NewPresetsCmd(), NewCheckScopesCmd())
	return root
}

// Execute runs the root command against os.Args. main prints the returned error.
func Execute() error {
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}
