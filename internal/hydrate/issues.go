package hydrate

import (
	"context"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// CreateIssues creates template issues in phase order, skipping any whose exact title is
// in the snapshot or appeared earlier in the template. Failed creations are counted as
// skipped. It returns the issues it created, for board placement.
func (g *Generator) CreateIssues(ctx context.Context, owner, repo string, snapshot *types.RepositorySnapshot, phases []types.Phase, result *types.GenerationResult) ([]types.CreatedIssue, error) {
	total := 0
	for _, phase := range phases {
		total += len(phase.Issues)
	}

	summary := &SectionSummary{Name: "Issues", Total: total}
	g.logger.Debug("Creating up to %d issues across %d phases", total, len(phases))

	var created []types.CreatedIssue
	seen := make(map[string]struct{}, total)
	index := 0

	for _, phase := range phases {
		for _, issue := range phase.Issues {
			if err := ctx.Err(); err != nil {
				return created, errors.ContextError("create_issues", err)
			}

			i := index
			index++

			if reason, skip := g.skipReason(snapshot, seen, issue.Title); skip {
				g.logger.Debug("Skipping issue '%s': %s", issue.Title, reason)
				result.IssuesSkipped++
				summary.Success++
				result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StageIssues, Subject: issue.Title, Status: types.StatusSkipped})
				g.progress(types.StageIssues, i+1, total)
				continue
			}
			seen[issue.Title] = struct{}{}

			issue.Body = common.NormalizeNewlines(issue.Body)

			if g.options.DryRun {
				g.logger.Info("Would create issue: %s (phase: %s)", issue.Title, phase.Name)
				result.IssuesCreated++
				summary.Success++
				result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StageIssues, Subject: issue.Title, Status: types.StatusCreated})
				g.progress(types.StageIssues, i+1, total)
				continue
			}

			var number int
			err := g.do(ctx, "create_issue", func(ctx context.Context) error {
				var err error
				number, err = g.client.CreateIssue(ctx, owner, repo, issue)
				return err
			})
			if err != nil {
				if stop := halt(ctx, "create_issues", err); stop != nil {
					return created, stop
				}
				summary.fail(common.FormatCreationError("Issue", issue.Title, i, err))
				g.logger.Debug("Failed to create issue '%s': %v", issue.Title, err)
				result.IssuesSkipped++
				result.Outcomes = append(result.Outcomes, types.Outcome{
					Stage:   types.StageIssues,
					Subject: issue.Title,
					Status:  types.StatusFailed,
					Error:   err.Error(),
				})
			} else {
				g.logger.Debug("Created issue #%d '%s'", number, issue.Title)
				result.IssuesCreated++
				summary.Success++
				created = append(created, types.CreatedIssue{Number: number, Title: issue.Title, PhaseName: phase.Name})
				result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StageIssues, Subject: issue.Title, Status: types.StatusCreated})
			}

			g.progress(types.StageIssues, i+1, total)
		}
	}

	summary.report(g.logger)
	return created, nil
}

func (g *Generator) skipReason(snapshot *types.RepositorySnapshot, seen map[string]struct{}, title string) (string, bool) {
	if snapshot.HasIssueTitle(title) {
		return "an issue with this title already exists", true
	}
	if _, dup := seen[title]; dup {
		return "title repeats an earlier template issue", true
	}
	return "", false
}
