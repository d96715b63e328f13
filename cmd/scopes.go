package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/config"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
)

// NewCheckScopesCmd creates the check-scopes command.
func NewCheckScopesCmd() *cobra.Command {
	var configPath string
	var debug bool
	cmd := &cobra.Command{
		Use:   "check-scopes",
		Short: "Check that the current token can create project boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			logger := common.NewLogger(debug)
			client, err := newClient(settings, logger)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}

			scopes, err := client.TokenScopes(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scopes) == 0 {
				fmt.Fprintln(out, "No OAuth scopes reported. Fine-grained tokens need the Projects account permission.")
				return nil
			}
			fmt.Fprintf(out, "Token scopes: %s\n", strings.Join(scopes, ", "))
			if !githubapi.HasProjectScope(scopes) {
				return fmt.Errorf("token lacks the 'project' scope; run: gh auth refresh -s project")
			}
			fmt.Fprintln(out, "The 'project' scope is present.")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Settings file (default is the user config dir)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug output")
	return cmd
}
