package hydrate

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/testutil"
	"github.com/chrisreddington/gh-boardkit/internal/throttle"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

var factory = &testutil.TestDataFactory{}

func newTestGenerator(client *testutil.GitHubClientMock, opts Options) (*Generator, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	return NewGenerator(client, logger, nil, opts), logger
}

// scenarioTemplate has labels bug and feature and one phase P1 with issues A and B
func scenarioTemplate() *types.Template {
	return factory.CreateTestTemplate(
		[]types.Label{
			{Name: "bug", Color: "FF0000"},
			{Name: "feature", Color: "00FF00"},
		},
		factory.CreateTestPhase("P1", "A", "B"),
	)
}

func TestGenerate_BoardDisabled(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil, "A")
	gen, _ := newTestGenerator(client, Options{})

	result, err := gen.Generate(context.Background(), "octo-org", "demo", scenarioTemplate(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.LabelsCreated)
	assert.Equal(t, 0, result.LabelsUpdated)
	assert.Equal(t, 1, result.IssuesCreated)
	assert.Equal(t, 1, result.IssuesSkipped)
	assert.Empty(t, result.ProjectURL)
	assert.Equal(t, []string{"CreateIssue:B"}, client.CallsTo("CreateIssue"))
	assert.Empty(t, client.CallsTo("CreateProject"))
}

func TestGenerate_BoardEnabledPlacesInFirstColumn(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil, "A")
	gen, _ := newTestGenerator(client, Options{})
	board := factory.CreateTestBoard("Todo", "Doing", "Done")
	// The mapping is ignored by the default policy
	board.PhaseMapping = []types.PhaseColumnMapping{{PhaseName: "P1", ColumnName: "Done"}}

	result, err := gen.Generate(context.Background(), "octo-org", "demo", scenarioTemplate(), board)
	require.NoError(t, err)

	require.Len(t, client.Projects, 1)
	project := client.Projects[0]
	assert.Equal(t, project.URL, result.ProjectURL)
	assert.Equal(t, "Test Template Board", project.Title)
	assert.Equal(t, testutil.DefaultValues.RepositoryID, project.RepositoryID)

	number, _, ok := client.IssueByTitle("B")
	require.True(t, ok)
	column, ok := client.ItemColumn(project, "Status", number)
	require.True(t, ok, "issue B should be on the board")
	assert.Equal(t, "Todo", column)
	assert.Len(t, project.Items, 1)
	assert.Empty(t, result.Failures())
}

func TestGenerate_EnabledBoardWithoutColumnsIsSkipped(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	gen, logger := newTestGenerator(client, Options{})
	board := &types.BoardConfiguration{Enabled: true, BoardType: types.BoardTypeCustom}

	result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), board)
	require.NoError(t, err)
	assert.Empty(t, client.CallsTo("CreateProject"))
	assert.Empty(t, client.CallsTo("ResolveOwnerAndRepoIDs"))
	assert.Empty(t, result.ProjectURL)
	assert.True(t, logger.HasInfo("without columns"))
}

func TestGenerate_BoardFailureKeepsLabelsAndIssues(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	client.FailOn("CreateProject", stderrors.New("Resource not accessible by integration"))
	gen, _ := newTestGenerator(client, Options{})

	result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), factory.CreateTestBoard("Todo"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.LabelsCreated)
	assert.Equal(t, 2, result.IssuesCreated)
	assert.Empty(t, result.ProjectURL)

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, types.StageBoard, failures[0].Stage)
	assert.Contains(t, failures[0].Error, "Resource not accessible")
	assert.Empty(t, client.CallsTo("AddItemToProject"))
}

func TestGenerate_SnapshotFailureIsFatal(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		operation string
	}{
		{name: "labels", method: "ListLabels", operation: "snapshot_labels"},
		{name: "issues", method: "ListIssueTitles", operation: "snapshot_issues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewGitHubClientMock(nil)
			client.FailOn(tt.method, stderrors.New("401 Bad credentials"))
			gen, _ := newTestGenerator(client, Options{})

			result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), nil)
			require.Error(t, err)
			assert.True(t, errors.IsLayer(err, "api"))
			assert.True(t, errors.IsOperation(err, tt.operation))
			assert.NotNil(t, result)
			assert.Empty(t, client.CallsTo("CreateLabel"))
		})
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	gen, _ := newTestGenerator(client, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "o", "r", scenarioTemplate(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsContextError(err))
	assert.Empty(t, client.Calls)
}

func TestGenerate_CancelledMidRun(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	ctx, cancel := context.WithCancel(context.Background())

	gen, _ := newTestGenerator(client, Options{Progress: func(p types.Progress) {
		if p.Stage == types.StageIssues && p.Current == 1 {
			cancel()
		}
	}})

	result, err := gen.Generate(ctx, "o", "r", scenarioTemplate(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsContextError(err))
	assert.Equal(t, 1, result.IssuesCreated)
	assert.Equal(t, []string{"CreateIssue:A"}, client.CallsTo("CreateIssue"))
}

// An HTTP client timeout wraps context.DeadlineExceeded but leaves the run's context
// alive, so it fails only the item it belongs to.
func TestGenerate_ClientTimeoutFailsOnlyThatItem(t *testing.T) {
	timeout := testutil.ClientTimeoutError(t)
	client := testutil.NewGitHubClientMock(nil)
	client.FailOn("CreateLabel:bug", timeout)
	client.FailOn("CreateIssue:A", timeout)
	client.FailOn("CreateProject", timeout)
	gen, _ := newTestGenerator(client, Options{})

	result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), factory.CreateTestBoard("Todo"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.LabelsCreated)
	assert.Equal(t, []string{"CreateLabel:bug", "CreateLabel:feature"}, client.CallsTo("CreateLabel"))
	assert.Equal(t, 1, result.IssuesCreated)
	assert.Equal(t, []string{"CreateIssue:A", "CreateIssue:B"}, client.CallsTo("CreateIssue"))

	stages := map[types.Stage]int{}
	for _, f := range result.Failures() {
		stages[f.Stage]++
	}
	assert.Equal(t, map[types.Stage]int{types.StageLabels: 1, types.StageIssues: 1, types.StageBoard: 1}, stages)
}

func TestGenerate_SnapshotTimeoutIsAnAPIError(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	client.FailOn("ListLabels", testutil.ClientTimeoutError(t))
	gen, _ := newTestGenerator(client, Options{})

	_, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsLayer(err, "api"))
	assert.True(t, errors.IsOperation(err, "snapshot_labels"))
}

func TestGenerate_SecondRunIsIdempotent(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	gen, _ := newTestGenerator(client, Options{})
	tmpl := scenarioTemplate()

	_, err := gen.Generate(context.Background(), "o", "r", tmpl, nil)
	require.NoError(t, err)
	callsAfterFirst := len(client.Calls)

	result, err := gen.Generate(context.Background(), "o", "r", tmpl, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.LabelsCreated)
	assert.Equal(t, 0, result.LabelsUpdated)
	assert.Equal(t, 2, result.LabelsUnchanged)
	assert.Equal(t, 0, result.IssuesCreated)
	assert.Equal(t, 2, result.IssuesSkipped)
	// Only the two snapshot reads
	assert.Equal(t, []string{"ListLabels", "ListIssueTitles"}, client.Calls[callsAfterFirst:])
}

func TestGenerate_DryRunMakesNoChanges(t *testing.T) {
	client := testutil.NewGitHubClientMock([]types.Label{{Name: "bug", Color: "000000"}}, "A")
	gen, logger := newTestGenerator(client, Options{DryRun: true})

	result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), factory.CreateTestBoard("Todo", "Done"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ListLabels", "ListIssueTitles"}, client.Calls)
	assert.Equal(t, 1, result.LabelsCreated)
	assert.Equal(t, 1, result.LabelsUpdated)
	assert.Equal(t, 1, result.IssuesCreated)
	assert.Equal(t, 1, result.IssuesSkipped)
	assert.Empty(t, result.ProjectURL)
	assert.True(t, logger.HasInfo(`Would create project "Test Template Board" with columns: Todo, Done`))
}

func TestGenerate_ProgressReportsEveryItem(t *testing.T) {
	client := testutil.NewGitHubClientMock(nil)
	var progress []types.Progress
	gen, _ := newTestGenerator(client, Options{Progress: func(p types.Progress) { progress = append(progress, p) }})

	_, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), factory.CreateTestBoard("Todo"))
	require.NoError(t, err)

	assert.Equal(t, []types.Progress{
		{Stage: types.StageLabels, Current: 1, Total: 2},
		{Stage: types.StageLabels, Current: 2, Total: 2},
		{Stage: types.StageIssues, Current: 1, Total: 2},
		{Stage: types.StageIssues, Current: 2, Total: 2},
		{Stage: types.StagePlacement, Current: 1, Total: 2},
		{Stage: types.StagePlacement, Current: 2, Total: 2},
	}, progress)
}

func TestGenerate_RetriesRateLimitedCalls(t *testing.T) {
	errLimited := stderrors.New("secondary rate limit")
	client := testutil.NewGitHubClientMock(nil)
	client.FailOnceOn("CreateIssue:B", errLimited)

	limiter := throttle.New(throttle.Config{
		MaxRetries: 2,
		MaxBackoff: time.Millisecond,
		Classify: func(err error, now time.Time) (time.Duration, bool) {
			return 0, stderrors.Is(err, errLimited)
		},
	})
	gen := NewGenerator(client, &testutil.MockLogger{}, limiter, Options{})

	result, err := gen.Generate(context.Background(), "o", "r", scenarioTemplate(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.IssuesCreated)
	assert.Equal(t, []string{"CreateIssue:A", "CreateIssue:B", "CreateIssue:B"}, client.CallsTo("CreateIssue"))
}

func TestGenerate_NilTemplate(t *testing.T) {
	gen, _ := newTestGenerator(testutil.NewGitHubClientMock(nil), Options{})
	_, err := gen.Generate(context.Background(), "o", "r", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsLayer(err, "validation"))
}

func TestNewGenerator_Defaults(t *testing.T) {
	gen, _ := newTestGenerator(testutil.NewGitHubClientMock(nil), Options{})
	assert.Equal(t, "Status", gen.options.StatusField)
	assert.Equal(t, "Workflow", gen.options.FallbackField)
	assert.Equal(t, types.PlacementFirstColumn, gen.options.Placement)
	assert.NotNil(t, gen.throttle)
}
