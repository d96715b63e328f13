// Package hydrate generates labels, issues and a Projects (v2) board in a repository
// from a project template. It reconciles the template against a snapshot of the
// repository, continues past per-item failures and reports every outcome.
package hydrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/config"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
	"github.com/chrisreddington/gh-boardkit/internal/throttle"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// SectionSummary holds statistics for a generation section (labels, issues, placement).
// It tracks the total number of items processed, successful operations, failures, and detailed error messages.
type SectionSummary struct {
	Name     string   // Name of the section (e.g., "Issues", "Labels")
	Total    int      // Total number of items to process
	Success  int      // Number of successful operations
	Failures int      // Number of failed operations
	Errors   []string // Detailed error messages for failed operations
}

func (s *SectionSummary) fail(message string) {
	s.Failures++
	s.Errors = append(s.Errors, message)
}

func (s *SectionSummary) report(logger common.Logger) {
	logger.Info("%s: %d total, %d successful, %d failed", s.Name, s.Total, s.Success, s.Failures)
}

// Options tune a Generator
type Options struct {
	// StatusField is the single-select field looked up on a new project
	StatusField string
	// FallbackField is created when the project has no StatusField
	FallbackField string
	// Placement decides which column each created issue lands in
	Placement types.PlacementPolicy
	// DryRun reads the repository and reports decisions without changing anything
	DryRun bool
	// Progress, when set, is called after each label, issue and placement
	Progress func(types.Progress)
}

// Generator turns a template into labels, issues and an optional board
type Generator struct {
	client   githubapi.GitHubClient
	logger   common.Logger
	throttle *throttle.Limiter
	options  Options
}

// NewGenerator creates a Generator. A nil limiter means no pacing and no retries.
func NewGenerator(client githubapi.GitHubClient, logger common.Logger, limiter *throttle.Limiter, opts Options) *Generator {
	if limiter == nil {
		limiter = throttle.Unlimited()
	}
	if opts.StatusField == "" {
		opts.StatusField = config.DefaultStatusFieldName
	}
	if opts.FallbackField == "" {
		opts.FallbackField = config.DefaultFallbackFieldName
	}
	if opts.Placement == "" {
		opts.Placement = types.PlacementFirstColumn
	}
	return &Generator{client: client, logger: logger, throttle: limiter, options: opts}
}

// Generate runs the stages in order: snapshot, labels, issues, then board and placement.
// Per-item and board failures are recorded as outcomes and never fail the run. A snapshot
// read failure or a cancelled context is returned together with the result so far.
func (g *Generator) Generate(ctx context.Context, owner, repo string, tmpl *types.Template, board *types.BoardConfiguration) (*types.GenerationResult, error) {
	result := &types.GenerationResult{}
	if tmpl == nil {
		return result, errors.ValidationError("generate", "template is required")
	}

	if g.options.DryRun {
		g.logger.Info("Starting generation for %s/%s (dry-run: true)", owner, repo)
	} else {
		g.logger.Info("Starting generation for %s/%s from template %q", owner, repo, tmpl.Name)
	}

	snapshot, err := g.TakeSnapshot(ctx, owner, repo)
	if err != nil {
		return result, err
	}

	if err := g.ReconcileLabels(ctx, owner, repo, snapshot, tmpl.Labels, result); err != nil {
		return result, err
	}

	created, err := g.CreateIssues(ctx, owner, repo, snapshot, tmpl.Phases, result)
	if err != nil {
		return result, err
	}

	if err := g.generateBoard(ctx, owner, repo, tmpl, board, created, result); err != nil {
		return result, err
	}

	g.reportFailures(result)
	return result, nil
}

// TakeSnapshot reads existing labels and issue titles once for the whole run
func (g *Generator) TakeSnapshot(ctx context.Context, owner, repo string) (*types.RepositorySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.ContextError("snapshot", err)
	}

	g.logger.Debug("Fetching existing labels from repository")
	labels, err := g.client.ListLabels(ctx, owner, repo)
	if err != nil {
		return nil, g.fatal(ctx, err, "snapshot_labels", "failed to read repository labels")
	}

	g.logger.Debug("Fetching existing issue titles from repository")
	titles, err := g.client.ListIssueTitles(ctx, owner, repo)
	if err != nil {
		return nil, g.fatal(ctx, err, "snapshot_issues", "failed to read repository issues")
	}

	g.logger.Debug("Found %d existing labels and %d existing issues", len(labels), len(titles))
	return types.NewRepositorySnapshot(labels, titles), nil
}

func (g *Generator) fatal(ctx context.Context, err error, operation, message string) error {
	if stop := halt(ctx, operation, err); stop != nil {
		return stop
	}
	return errors.WrapWithOperation(err, "api", operation, message)
}

// halt returns the error that ends the run, or nil when err only concerns one item.
// A request that hit the HTTP client timeout leaves ctx alive and is a per-item failure.
func halt(ctx context.Context, operation string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.ContextError(operation, ctxErr)
	}
	if errors.IsLayer(err, "context") {
		return errors.ContextError(operation, err)
	}
	return nil
}

// generateBoard provisions the board and places created issues. Provisioning failures
// are recorded and swallowed so labels and issues already created stand.
func (g *Generator) generateBoard(ctx context.Context, owner, repo string, tmpl *types.Template, board *types.BoardConfiguration, created []types.CreatedIssue, result *types.GenerationResult) error {
	if !board.WantsBoard() {
		if board != nil && board.Enabled && len(board.Columns) == 0 {
			g.logger.Info("Board requested without columns, skipping board creation")
		}
		return nil
	}

	title := config.BoardName(board, tmpl)
	if g.options.DryRun {
		g.logger.Info("Would create project %q with columns: %s", title, columnNames(board.Columns))
		g.logger.Info("Would place %d new issues using the %s policy", len(created), g.options.Placement)
		return nil
	}

	projectBoard, err := g.ProvisionBoard(ctx, owner, repo, board, title)
	if err != nil {
		if stop := halt(ctx, "provision_board", err); stop != nil {
			return stop
		}
		g.logger.Info("Board creation failed, continuing without a project: %v", err)
		result.Outcomes = append(result.Outcomes, types.Outcome{
			Stage:   types.StageBoard,
			Subject: title,
			Status:  types.StatusFailed,
			Error:   err.Error(),
		})
		return nil
	}

	result.ProjectURL = projectBoard.URL
	result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StageBoard, Subject: title, Status: types.StatusCreated})

	return g.PlaceItems(ctx, owner, repo, projectBoard, board, created, result)
}

func (g *Generator) reportFailures(result *types.GenerationResult) {
	collector := errors.NewErrorCollector("generate")
	for _, failure := range result.Failures() {
		collector.Add(fmt.Errorf("%s %q: %s", failure.Stage, failure.Subject, failure.Error))
	}
	if err := collector.Result(); err != nil {
		g.logger.Info("Completed with %d failures", collector.Len())
		g.logger.Debug("%v", err)
		return
	}
	g.logger.Info("Completed successfully")
}

func (g *Generator) progress(stage types.Stage, current, total int) {
	if g.options.Progress != nil {
		g.options.Progress(types.Progress{Stage: stage, Current: current, Total: total})
	}
}

// do runs fn through the throttle
func (g *Generator) do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return g.throttle.Do(ctx, operation, fn)
}

func columnNames(columns []types.BoardColumn) string {
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, column.Name)
	}
	return strings.Join(names, ", ")
}
