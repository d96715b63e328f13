package config

import (
	"context"
	"strings"
	"testing"

	"github.com/chrisreddington/gh-boardkit/internal/types"
)

func TestResolveBoardConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		opts        BoardOptions
		wantEnabled bool
		wantColumns []string
		wantMapping int
		wantErr     bool
	}{
		{
			name:        "default is no board",
			opts:        BoardOptions{},
			wantEnabled: false,
		},
		{
			name:        "kanban preset",
			opts:        BoardOptions{Type: "Kanban"},
			wantEnabled: true,
			wantColumns: []string{"Todo", "In Progress", "Done"},
		},
		{
			name:        "custom columns with descriptions and mapping",
			opts:        BoardOptions{Type: "custom", Columns: []string{"Todo:Not started", "Doing", "Done"}, Mappings: []string{"P1=Doing"}},
			wantEnabled: true,
			wantColumns: []string{"Todo", "Doing", "Done"},
			wantMapping: 1,
		},
		{
			name:        "custom without columns stays empty",
			opts:        BoardOptions{Type: "custom"},
			wantEnabled: true,
		},
		{
			name:    "unknown type",
			opts:    BoardOptions{Type: "gantt"},
			wantErr: true,
		},
		{
			name:    "bad mapping",
			opts:    BoardOptions{Type: "kanban", Mappings: []string{"P1"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := ResolveBoardConfiguration(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if board.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", board.Enabled, tt.wantEnabled)
			}
			if len(board.Columns) != len(tt.wantColumns) {
				t.Fatalf("Expected %d columns, got %+v", len(tt.wantColumns), board.Columns)
			}
			for i, name := range tt.wantColumns {
				if board.Columns[i].Name != name {
					t.Errorf("Column %d = %q, want %q", i, board.Columns[i].Name, name)
				}
			}
			if len(board.PhaseMapping) != tt.wantMapping {
				t.Errorf("Expected %d mappings, got %d", tt.wantMapping, len(board.PhaseMapping))
			}
		})
	}
}

func TestResolveBoardConfiguration_ColumnDescription(t *testing.T) {
	board, err := ResolveBoardConfiguration(BoardOptions{Type: "custom", Columns: []string{"Todo: Not started"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if board.Columns[0].Description != "Not started" {
		t.Errorf("Description = %q", board.Columns[0].Description)
	}
}

func TestValidateBoardConfiguration(t *testing.T) {
	tmpl := &types.Template{Phases: []types.Phase{{Name: "P1"}, {Name: "P2"}}}

	t.Run("warnings for unknown references", func(t *testing.T) {
		board := &types.BoardConfiguration{
			Columns: []types.BoardColumn{{Name: "Todo"}, {Name: "Done"}},
			PhaseMapping: []types.PhaseColumnMapping{
				{PhaseName: "P1", ColumnName: "Todo"},
				{PhaseName: "P9", ColumnName: "Done"},
				{PhaseName: "P2", ColumnName: "Review"},
			},
		}
		warnings, err := ValidateBoardConfiguration(board, tmpl)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(warnings) != 2 {
			t.Fatalf("Expected 2 warnings, got %v", warnings)
		}
		if !strings.Contains(warnings[0], "P9") || !strings.Contains(warnings[1], "Review") {
			t.Errorf("Unexpected warnings %v", warnings)
		}
	})

	t.Run("duplicate column", func(t *testing.T) {
		board := &types.BoardConfiguration{Columns: []types.BoardColumn{{Name: "Todo"}, {Name: "Todo"}}}
		if _, err := ValidateBoardConfiguration(board, tmpl); err == nil {
			t.Error("Expected duplicate column error")
		}
	})

	t.Run("nil board", func(t *testing.T) {
		if warnings, err := ValidateBoardConfiguration(nil, tmpl); err != nil || warnings != nil {
			t.Errorf("Expected nothing for nil board, got %v %v", warnings, err)
		}
	})
}

func TestBoardName(t *testing.T) {
	tmpl := &types.Template{Name: "SaaS MVP"}

	if got := BoardName(&types.BoardConfiguration{BoardName: "Launch"}, tmpl); got != "Launch" {
		t.Errorf("BoardName = %q, want Launch", got)
	}
	if got := BoardName(&types.BoardConfiguration{BoardName: "  "}, tmpl); got != "SaaS MVP Board" {
		t.Errorf("BoardName = %q, want 'SaaS MVP Board'", got)
	}
}

func TestLoadBoardConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "board.yml", `
enabled: true
boardType: scrum
boardName: Sprint board
phaseMapping:
  - phaseName: P1
    columnName: Backlog
`)

	board, err := LoadBoardConfiguration(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadBoardConfiguration() error = %v", err)
	}
	if !board.Enabled || board.BoardName != "Sprint board" {
		t.Errorf("Unexpected board %+v", board)
	}
	if len(board.Columns) != 5 || board.Columns[0].Name != "Backlog" {
		t.Errorf("Expected scrum preset columns, got %+v", board.Columns)
	}
	if len(board.PhaseMapping) != 1 || board.PhaseMapping[0].ColumnName != "Backlog" {
		t.Errorf("Unexpected mapping %+v", board.PhaseMapping)
	}
}

func TestLoadBoardConfiguration_ExplicitEmptyColumns(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"board.json": `{"enabled": true, "boardType": "kanban", "columns": []}`,
		"board.yaml": "enabled: true\nboardType: kanban\ncolumns: []\n",
	} {
		t.Run(name, func(t *testing.T) {
			board, err := LoadBoardConfiguration(context.Background(), writeFile(t, dir, name, content))
			if err != nil {
				t.Fatalf("LoadBoardConfiguration() error = %v", err)
			}
			if len(board.Columns) != 0 {
				t.Errorf("Expected the explicit empty column list to be kept, got %+v", board.Columns)
			}
			if board.WantsBoard() {
				t.Error("A board without columns should not be provisioned")
			}
		})
	}
}
