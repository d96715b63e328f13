// Package types contains common type definitions used across the application.
// This package centralizes all data structures to avoid duplication and ensure consistency.
package types

// Label represents a label that can be created in a GitHub repository.
// It contains all the fields that can be specified when creating a label via the GitHub API.
type Label struct {
	// Name is the display name for the label, unique within a template
	Name string `json:"name" yaml:"name"`
	// Color is the hexadecimal color code for the label (without the # prefix)
	Color string `json:"color" yaml:"color"`
	// Description is an optional description for the label
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Issue represents an issue that can be created in a GitHub repository.
// It contains all the fields that can be specified when creating an issue via the GitHub API.
type Issue struct {
	Title     string   `json:"title" yaml:"title"`
	Body      string   `json:"body" yaml:"body"`
	Labels    []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
}

// Phase is a named, ordered group of issues within a template.
type Phase struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string  `json:"duration,omitempty" yaml:"duration,omitempty"`
	Issues      []Issue `json:"issues" yaml:"issues"`
}

// Template describes the desired end state of a repository: its labels and its phased issues.
type Template struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Labels      []Label `json:"labels" yaml:"labels"`
	Phases      []Phase `json:"phases" yaml:"phases"`
}

// IssueCount returns the number of issues across all phases.
func (t *Template) IssueCount() int {
	total := 0
	for _, phase := range t.Phases {
		total += len(phase.Issues)
	}
	return total
}

// BoardType selects a column preset for the project board.
type BoardType string

const (
	BoardTypeKanban BoardType = "kanban"
	BoardTypeScrum  BoardType = "scrum"
	BoardTypeCustom BoardType = "custom"
	BoardTypeNone   BoardType = "none"
)

// BoardColumn is one column of the board, realized as an option of the status field.
type BoardColumn struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PhaseColumnMapping routes the issues of a template phase to a board column.
type PhaseColumnMapping struct {
	PhaseName  string `json:"phaseName" yaml:"phaseName"`
	ColumnName string `json:"columnName" yaml:"columnName"`
}

// BoardConfiguration controls whether and how a project board is created.
// Columns are ordered; index 0 is the default placement target.
type BoardConfiguration struct {
	Enabled      bool                 `json:"enabled" yaml:"enabled"`
	BoardType    BoardType            `json:"boardType" yaml:"boardType"`
	BoardName    string               `json:"boardName" yaml:"boardName"`
	Columns      []BoardColumn        `json:"columns" yaml:"columns"`
	PhaseMapping []PhaseColumnMapping `json:"phaseMapping,omitempty" yaml:"phaseMapping,omitempty"`
}

// WantsBoard reports whether a board should be provisioned for this configuration.
func (b *BoardConfiguration) WantsBoard() bool {
	return b != nil && b.Enabled && b.BoardType != BoardTypeNone && len(b.Columns) > 0
}

// PlacementPolicy decides which column a newly created issue lands in.
type PlacementPolicy string

const (
	// PlacementFirstColumn places every created issue in the first column.
	PlacementFirstColumn PlacementPolicy = "first-column"
	// PlacementPhaseMapping places issues in the column mapped to their phase.
	PlacementPhaseMapping PlacementPolicy = "phase-mapping"
)
