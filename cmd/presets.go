package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisreddington/gh-boardkit/internal/config"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

type presetView struct {
	Type    types.BoardType     `json:"type"`
	Label   string              `json:"label"`
	Columns []types.BoardColumn `json:"columns,omitempty"`
}

// NewPresetsCmd creates the presets command, which lists the board types.
func NewPresetsCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List board types and their preset columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := listPresets()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), presets)
			}
			for _, p := range presets {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", p.Type, p.Label)
				for _, column := range p.Columns {
					fmt.Fprintf(cmd.OutOrStdout(), "        - %s: %s\n", column.Name, column.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the presets as JSON")
	return cmd
}

func listPresets() []presetView {
	presets := make([]presetView, 0, len(config.BoardTypeLabels))
	for boardType, label := range config.BoardTypeLabels {
		presets = append(presets, presetView{
			Type:    boardType,
			Label:   label,
			Columns: config.PresetColumns(boardType),
		})
	}
	sort.Slice(presets, func(i, j int) bool {
		return strings.Compare(string(presets[i].Type), string(presets[j].Type)) < 0
	})
	return presets
}
