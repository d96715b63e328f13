package hydrate

import (
	"context"
	"fmt"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// PlaceItems adds each created issue to the project and sets its status option.
// With the first-column policy every issue lands in the first column whatever its phase.
// With the phase-mapping policy an issue follows its phase's mapping, falling back to
// the first column. A failed placement is recorded and the rest continue.
func (g *Generator) PlaceItems(ctx context.Context, owner, repo string, projectBoard *types.ProjectBoard, board *types.BoardConfiguration, issues []types.CreatedIssue, result *types.GenerationResult) error {
	if len(projectBoard.Columns) == 0 {
		return errors.ValidationError("place_items", "board has no columns")
	}

	summary := &SectionSummary{Name: "Placement", Total: len(issues)}
	g.logger.Debug("Placing %d issues on project %s (policy: %s)", len(issues), projectBoard.URL, g.options.Placement)

	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			return errors.ContextError("place_items", err)
		}

		column := g.columnFor(projectBoard, board, issue.PhaseName)
		if err := g.placeItem(ctx, owner, repo, projectBoard, column, issue); err != nil {
			if stop := halt(ctx, "place_items", err); stop != nil {
				return stop
			}
			summary.fail(common.FormatCreationError("Item", issue.Title, i, err))
			g.logger.Debug("Failed to place issue #%d '%s': %v", issue.Number, issue.Title, err)
			result.Outcomes = append(result.Outcomes, types.Outcome{
				Stage:   types.StagePlacement,
				Subject: issue.Title,
				Status:  types.StatusFailed,
				Error:   err.Error(),
			})
		} else {
			summary.Success++
			g.logger.Debug("Placed issue #%d '%s' in '%s'", issue.Number, issue.Title, column.Name)
			result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StagePlacement, Subject: issue.Title, Status: types.StatusPlaced})
		}

		g.progress(types.StagePlacement, i+1, len(issues))
	}

	summary.report(g.logger)
	return nil
}

func (g *Generator) placeItem(ctx context.Context, owner, repo string, projectBoard *types.ProjectBoard, column types.FieldOption, issue types.CreatedIssue) error {
	var nodeID string
	err := g.do(ctx, "resolve_issue_id", func(ctx context.Context) error {
		var err error
		nodeID, err = g.client.ResolveIssueNodeID(ctx, owner, repo, issue.Number)
		return err
	})
	if err != nil {
		return placementError("resolve_issue_id", issue, err)
	}

	var itemID string
	err = g.do(ctx, "add_project_item", func(ctx context.Context) error {
		var err error
		itemID, err = g.client.AddItemToProject(ctx, projectBoard.ProjectID, nodeID)
		return err
	})
	if err != nil {
		return placementError("add_project_item", issue, err)
	}

	err = g.do(ctx, "set_field_value", func(ctx context.Context) error {
		return g.client.SetSingleSelectFieldValue(ctx, projectBoard.ProjectID, itemID, projectBoard.FieldID, column.ID)
	})
	if err != nil {
		return placementError("set_field_value", issue, err)
	}
	return nil
}

// columnFor picks the option an issue from phase is placed in
func (g *Generator) columnFor(projectBoard *types.ProjectBoard, board *types.BoardConfiguration, phase string) types.FieldOption {
	first := projectBoard.Columns[0]
	if g.options.Placement != types.PlacementPhaseMapping || board == nil {
		return first
	}
	for _, mapping := range board.PhaseMapping {
		if mapping.PhaseName != phase {
			continue
		}
		if option, ok := projectBoard.ColumnByName(mapping.ColumnName); ok {
			return option
		}
		break
	}
	return first
}

func placementError(operation string, issue types.CreatedIssue, err error) error {
	if errors.IsLayer(err, "context") {
		return err
	}
	wrapped := errors.ProjectError(operation, "failed to place issue", err)
	return errors.WithContextSafe(wrapped, "issue", fmt.Sprintf("#%d", issue.Number))
}
