// Package config provides application configuration constants, default values, and the
// loaders for settings files, templates and board configurations.
package config

import (
	"time"

	"github.com/chrisreddington/gh-boardkit/internal/types"
)

const (
	// DefaultHost is the GitHub host used when none is configured
	DefaultHost = "github.com"

	// DefaultStatusFieldName is the built-in single-select field looked up on a new project
	DefaultStatusFieldName = "Status"

	// DefaultFallbackFieldName is the single-select field created when no status field exists
	DefaultFallbackFieldName = "Workflow"

	// DefaultBoardNameSuffix is appended to the template name when no board name is given
	DefaultBoardNameSuffix = " Board"

	// DefaultRequestsPerSecond paces creation calls; 10/s matches a 100ms gap between calls
	DefaultRequestsPerSecond = 10.0

	// DefaultBurst is the token bucket size for creation calls
	DefaultBurst = 1

	// DefaultMaxRetries is how many times a rate-limited call is retried
	DefaultMaxRetries = 3

	// DefaultMaxBackoff caps a single server-advised wait
	DefaultMaxBackoff = 2 * time.Minute

	// APITimeout is the default timeout for a single GitHub API request
	APITimeout = 30 * time.Second

	// GenerationTimeout bounds a whole generation run started from the CLI
	GenerationTimeout = 10 * time.Minute

	// SettingsDirName is the directory under the user config dir holding the settings file
	SettingsDirName = "gh-boardkit"

	// SettingsFilename is the settings file name
	SettingsFilename = "config.toml"

	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "BOARDKIT_"
)

// OptionColors is the palette cycled through when creating status field options.
var OptionColors = []string{"GRAY", "BLUE", "YELLOW", "ORANGE", "GREEN", "PURPLE", "PINK", "RED"}

// OptionColor returns the palette color for the column at index.
func OptionColor(index int) string {
	return OptionColors[index%len(OptionColors)]
}

// BoardPresets holds the column presets for the built-in board types.
var BoardPresets = map[types.BoardType][]types.BoardColumn{
	types.BoardTypeKanban: {
		{Name: "Todo", Description: "Tasks to be done"},
		{Name: "In Progress", Description: "Work in progress"},
		{Name: "Done", Description: "Completed tasks"},
	},
	types.BoardTypeScrum: {
		{Name: "Backlog", Description: "Future work"},
		{Name: "To Do", Description: "Sprint backlog"},
		{Name: "In Progress", Description: "Currently being worked on"},
		{Name: "In Review", Description: "Under review"},
		{Name: "Done", Description: "Completed in this sprint"},
	},
}

// BoardTypeLabels describes each board type for help output.
var BoardTypeLabels = map[types.BoardType]string{
	types.BoardTypeKanban: "Kanban (Todo, In Progress, Done)",
	types.BoardTypeScrum:  "Scrum (Backlog, To Do, In Progress, In Review, Done)",
	types.BoardTypeCustom: "Custom (Define your own columns)",
	types.BoardTypeNone:   "No Project Board (Issues only)",
}

// PresetColumns returns a copy of the preset columns for boardType, or nil for custom/none.
func PresetColumns(boardType types.BoardType) []types.BoardColumn {
	preset, ok := BoardPresets[boardType]
	if !ok {
		return nil
	}
	columns := make([]types.BoardColumn, len(preset))
	copy(columns, preset)
	return columns
}
