package config

import (
	"fmt"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// BoardOptions are the board settings collected from command line flags.
type BoardOptions struct {
	Type     types.BoardType
	Name     string
	Columns  []string // "Name" or "Name:Description"
	Mappings []string // "Phase=Column"
}

// ResolveBoardConfiguration turns flag values into a BoardConfiguration.
// Preset board types supply their columns unless columns are given explicitly.
func ResolveBoardConfiguration(opts BoardOptions) (*types.BoardConfiguration, error) {
	boardType := types.BoardType(strings.ToLower(strings.TrimSpace(string(opts.Type))))
	if boardType == "" {
		boardType = types.BoardTypeNone
	}
	if _, known := BoardTypeLabels[boardType]; !known {
		return nil, errors.ValidationError("resolve_board",
			fmt.Sprintf("unknown board type %q (want kanban, scrum, custom or none)", opts.Type))
	}

	board := &types.BoardConfiguration{
		Enabled:   boardType != types.BoardTypeNone,
		BoardType: boardType,
		BoardName: strings.TrimSpace(opts.Name),
	}
	if !board.Enabled {
		return board, nil
	}

	if len(opts.Columns) > 0 {
		for _, raw := range opts.Columns {
			name, description, _ := strings.Cut(raw, ":")
			board.Columns = append(board.Columns, types.BoardColumn{
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(description),
			})
		}
	} else {
		board.Columns = PresetColumns(boardType)
	}

	for _, raw := range opts.Mappings {
		phase, column, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, errors.ValidationError("resolve_board", fmt.Sprintf("invalid mapping %q (want PHASE=COLUMN)", raw))
		}
		board.PhaseMapping = append(board.PhaseMapping, types.PhaseColumnMapping{
			PhaseName:  strings.TrimSpace(phase),
			ColumnName: strings.TrimSpace(column),
		})
	}

	return board, nil
}

// ValidateBoardConfiguration rejects unusable columns and returns warnings for phase
// mappings that reference unknown phases or columns.
func ValidateBoardConfiguration(board *types.BoardConfiguration, tmpl *types.Template) ([]string, error) {
	if board == nil {
		return nil, nil
	}

	columns := make(map[string]struct{}, len(board.Columns))
	for i, column := range board.Columns {
		if column.Name == "" {
			return nil, errors.ValidationError("validate_board", fmt.Sprintf("column #%d has no name", i+1))
		}
		if _, dup := columns[column.Name]; dup {
			return nil, errors.ValidationError("validate_board", fmt.Sprintf("column %q is defined more than once", column.Name))
		}
		columns[column.Name] = struct{}{}
	}

	phases := make(map[string]struct{})
	if tmpl != nil {
		for _, phase := range tmpl.Phases {
			phases[phase.Name] = struct{}{}
		}
	}

	var warnings []string
	for _, mapping := range board.PhaseMapping {
		if _, ok := phases[mapping.PhaseName]; tmpl != nil && !ok {
			warnings = append(warnings, fmt.Sprintf("phase mapping references unknown phase %q", mapping.PhaseName))
		}
		if _, ok := columns[mapping.ColumnName]; !ok {
			warnings = append(warnings, fmt.Sprintf("phase mapping for %q references unknown column %q", mapping.PhaseName, mapping.ColumnName))
		}
	}
	return warnings, nil
}

// BoardName returns the configured board name, or "<template name> Board" when blank.
func BoardName(board *types.BoardConfiguration, tmpl *types.Template) string {
	if board != nil && strings.TrimSpace(board.BoardName) != "" {
		return strings.TrimSpace(board.BoardName)
	}
	name := ""
	if tmpl != nil {
		name = tmpl.Name
	}
	return name + DefaultBoardNameSuffix
}
