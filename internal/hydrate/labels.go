package hydrate

import (
	"context"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// ReconcileLabels creates labels missing from the snapshot and updates those whose color
// or description differ. Labels that already match cost no API call.
func (g *Generator) ReconcileLabels(ctx context.Context, owner, repo string, snapshot *types.RepositorySnapshot, labels []types.Label, result *types.GenerationResult) error {
	summary := &SectionSummary{Name: "Labels", Total: len(labels)}
	g.logger.Debug("Reconciling %d labels", len(labels))

	for i, label := range labels {
		if err := ctx.Err(); err != nil {
			return errors.ContextError("reconcile_labels", err)
		}

		status, err := g.reconcileLabel(ctx, owner, repo, snapshot, label)
		if err != nil {
			if stop := halt(ctx, "reconcile_labels", err); stop != nil {
				return stop
			}
			message := common.FormatCreationError("Label", label.Name, i, err)
			summary.fail(message)
			g.logger.Debug("Failed to reconcile label '%s': %v", label.Name, err)
			result.Outcomes = append(result.Outcomes, types.Outcome{
				Stage:   types.StageLabels,
				Subject: label.Name,
				Status:  types.StatusFailed,
				Error:   err.Error(),
			})
		} else {
			summary.Success++
			switch status {
			case types.StatusCreated:
				result.LabelsCreated++
			case types.StatusUpdated:
				result.LabelsUpdated++
			case types.StatusUnchanged:
				result.LabelsUnchanged++
			}
			result.Outcomes = append(result.Outcomes, types.Outcome{Stage: types.StageLabels, Subject: label.Name, Status: status})
		}

		g.progress(types.StageLabels, i+1, len(labels))
	}

	summary.report(g.logger)
	return nil
}

func (g *Generator) reconcileLabel(ctx context.Context, owner, repo string, snapshot *types.RepositorySnapshot, label types.Label) (types.OutcomeStatus, error) {
	existing, exists := snapshot.Labels[label.Name]

	if exists && labelMatches(existing, label) {
		g.logger.Debug("Label '%s' is up to date", label.Name)
		return types.StatusUnchanged, nil
	}

	if exists {
		if g.options.DryRun {
			g.logger.Info("Would update label: %s (color: %s)", label.Name, label.Color)
			return types.StatusUpdated, nil
		}
		if err := g.updateLabel(ctx, owner, repo, label); err != nil {
			return "", err
		}
		return types.StatusUpdated, nil
	}

	if g.options.DryRun {
		g.logger.Info("Would create label: %s (color: %s)", label.Name, label.Color)
		return types.StatusCreated, nil
	}

	err := g.do(ctx, "create_label", func(ctx context.Context) error {
		return g.client.CreateLabel(ctx, owner, repo, label)
	})
	if githubapi.IsAlreadyExists(err) {
		// The snapshot missed it; treat the create as an update
		g.logger.Debug("Label '%s' already exists, updating instead", label.Name)
		if err := g.updateLabel(ctx, owner, repo, label); err != nil {
			return "", err
		}
		return types.StatusUpdated, nil
	}
	if err != nil {
		return "", err
	}

	g.logger.Debug("Created label '%s' with color '%s'", label.Name, label.Color)
	return types.StatusCreated, nil
}

func (g *Generator) updateLabel(ctx context.Context, owner, repo string, label types.Label) error {
	err := g.do(ctx, "update_label", func(ctx context.Context) error {
		return g.client.UpdateLabel(ctx, owner, repo, label.Name, label)
	})
	if err == nil {
		g.logger.Debug("Updated label '%s' (color: %s)", label.Name, label.Color)
	}
	return err
}

// labelMatches compares colors case-insensitively and descriptions exactly
func labelMatches(existing, desired types.Label) bool {
	return strings.EqualFold(existing.Color, desired.Color) && existing.Description == desired.Description
}
