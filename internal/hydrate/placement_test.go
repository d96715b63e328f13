package hydrate

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisreddington/gh-boardkit/internal/testutil"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

func phasedTemplate() *types.Template {
	return factory.CreateTestTemplate(nil,
		factory.CreateTestPhase("Plan", "Write RFC"),
		factory.CreateTestPhase("Build", "Implement"),
		factory.CreateTestPhase("Release", "Tag v1"),
	)
}

func phasedBoard() *types.BoardConfiguration {
	board := factory.CreateTestBoard("Backlog", "In Progress", "Done")
	board.PhaseMapping = []types.PhaseColumnMapping{
		{PhaseName: "Plan", ColumnName: "Backlog"},
		{PhaseName: "Build", ColumnName: "In Progress"},
		{PhaseName: "Release", ColumnName: "Shipped"}, // unknown column
	}
	return board
}

func TestPlacement_Policies(t *testing.T) {
	tests := []struct {
		name   string
		policy types.PlacementPolicy
		want   map[string]string
	}{
		{
			name:   "first column ignores the mapping",
			policy: types.PlacementFirstColumn,
			want:   map[string]string{"Write RFC": "Backlog", "Implement": "Backlog", "Tag v1": "Backlog"},
		},
		{
			name:   "phase mapping routes by phase",
			policy: types.PlacementPhaseMapping,
			want:   map[string]string{"Write RFC": "Backlog", "Implement": "In Progress", "Tag v1": "Backlog"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewGitHubClientMock(nil)
			gen, _ := newTestGenerator(client, Options{Placement: tt.policy})

			_, err := gen.Generate(context.Background(), "o", "r", phasedTemplate(), phasedBoard())
			require.NoError(t, err)
			require.Len(t, client.Projects, 1)

			for title, column := range tt.want {
				number, _, ok := client.IssueByTitle(title)
				require.True(t, ok)
				got, ok := client.ItemColumn(client.Projects[0], "Status", number)
				require.True(t, ok, "issue %q should be placed", title)
				assert.Equal(t, column, got, "column of %q", title)
			}
		})
	}
}

func TestPlacement_OnlyNewIssuesArePlaced(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil, "Implement")
	gen, _ := newTestGenerator(client, Options{})

	_, err := gen.Generate(context.Background(), "o", "r", phasedTemplate(), phasedBoard())
	require.NoError(t, err)

	assert.Len(t, client.Projects[0].Items, 2)
	assert.Equal(t, []string{"ResolveIssueNodeID:2", "ResolveIssueNodeID:3"}, client.CallsTo("ResolveIssueNodeID"))
}

func TestPlacement_FailureIsIsolated(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{name: "node id", failOn: "ResolveIssueNodeID:2"},
		{name: "add item", failOn: "AddItemToProject:I_2"},
		{name: "set value", failOn: "SetSingleSelectFieldValue:PVTI_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewGitHubClientMock(nil)
			client.FailOn(tt.failOn, stderrors.New("boom"))
			gen, _ := newTestGenerator(client, Options{})

			result, err := gen.Generate(context.Background(), "o", "r", phasedTemplate(), phasedBoard())
			require.NoError(t, err)
			assert.NotEmpty(t, result.ProjectURL)

			failures := result.Failures()
			require.Len(t, failures, 1)
			assert.Equal(t, types.StagePlacement, failures[0].Stage)
			assert.Equal(t, "Implement", failures[0].Subject)

			placed := 0
			for _, o := range result.Outcomes {
				if o.Status == types.StatusPlaced {
					placed++
				}
			}
			assert.Equal(t, 2, placed)
			// The third issue is still attempted
			assert.Contains(t, client.CallsTo("ResolveIssueNodeID"), "ResolveIssueNodeID:3")
		})
	}
}

func TestColumnFor(t *testing.T) {
	pb := &types.ProjectBoard{Columns: []types.FieldOption{{ID: "a", Name: "Todo"}, {ID: "b", Name: "Done"}}}
	board := &types.BoardConfiguration{PhaseMapping: []types.PhaseColumnMapping{{PhaseName: "P2", ColumnName: "Done"}}}

	first, _ := newTestGenerator(testutil.NewGitHubClientMock(nil), Options{})
	mapped, _ := newTestGenerator(testutil.NewGitHubClientMock(nil), Options{Placement: types.PlacementPhaseMapping})

	assert.Equal(t, "a", first.columnFor(pb, board, "P2").ID)
	assert.Equal(t, "b", mapped.columnFor(pb, board, "P2").ID)
	assert.Equal(t, "a", mapped.columnFor(pb, board, "P1").ID)
	assert.Equal(t, "a", mapped.columnFor(pb, nil, "P2").ID)
}
