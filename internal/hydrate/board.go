package hydrate

import (
	"context"
	"fmt"

	"github.com/chrisreddington/gh-boardkit/internal/config"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// ProvisionBoard creates a project linked to the repository and makes its status field
// hold exactly one option per board column, in column order. An existing status field
// has its options replaced; without one a fallback field is created.
func (g *Generator) ProvisionBoard(ctx context.Context, owner, repo string, board *types.BoardConfiguration, title string) (*types.ProjectBoard, error) {
	if board == nil || len(board.Columns) == 0 {
		return nil, errors.ValidationError("provision_board", "board has no columns")
	}

	var ids githubapi.RepositoryIDs
	err := g.do(ctx, "resolve_repository_ids", func(ctx context.Context) error {
		var err error
		ids, err = g.client.ResolveOwnerAndRepoIDs(ctx, owner, repo)
		return err
	})
	if err != nil {
		return nil, boardError("resolve_repository_ids", "failed to resolve repository ids", err)
	}

	var project *types.ProjectV2
	err = g.do(ctx, "create_project", func(ctx context.Context) error {
		var err error
		project, err = g.client.CreateProject(ctx, ids.OwnerID, ids.RepositoryID, title)
		return err
	})
	if err != nil {
		return nil, errors.WithContextSafe(boardError("create_project", "failed to create project", err), "title", title)
	}
	g.logger.Info("Created project %q: %s", project.Title, project.URL)

	fields, err := g.singleSelectFields(ctx, project.ID)
	if err != nil {
		return nil, boardError("get_project_fields", "failed to read project fields", err)
	}

	var field *types.SingleSelectField
	var options []types.FieldOption
	if status := findField(fields, g.options.StatusField); status != nil {
		field = status
		options, err = g.replaceOptions(ctx, project.ID, status, board.Columns)
	} else {
		field, err = g.createFallbackField(ctx, project.ID, board.Columns)
		if field != nil {
			options = field.Options
		}
	}
	if err != nil {
		return nil, err
	}

	columns, err := g.resolveColumns(ctx, project.ID, field.ID, board.Columns, options)
	if err != nil {
		return nil, err
	}

	return &types.ProjectBoard{
		ProjectID: project.ID,
		Number:    project.Number,
		URL:       project.URL,
		FieldID:   field.ID,
		FieldName: field.Name,
		Columns:   columns,
	}, nil
}

// replaceOptions deletes the field's current options, best effort, then creates one per
// column. Every rewrite of the field can reissue the ids of the options left on it, so
// options are deleted by name and the field is read again after each deletion. An option
// whose deletion failed is reused when a column has the same name.
func (g *Generator) replaceOptions(ctx context.Context, projectID string, field *types.SingleSelectField, columns []types.BoardColumn) ([]types.FieldOption, error) {
	g.logger.Debug("Replacing %d options on field '%s'", len(field.Options), field.Name)

	current := field.Options
	attempted := make(map[string]struct{}, len(current))
	for {
		option, ok := nextOption(current, attempted)
		if !ok {
			break
		}
		attempted[option.Name] = struct{}{}

		err := g.do(ctx, "delete_field_option", func(ctx context.Context) error {
			return g.client.DeleteFieldOption(ctx, projectID, field.ID, option.ID)
		})
		if err != nil {
			if stop := halt(ctx, "delete_field_option", err); stop != nil {
				return nil, stop
			}
			g.logger.Info("Could not delete option '%s' from field '%s': %v", option.Name, field.Name, err)
			continue
		}

		refreshed, err := g.fieldByID(ctx, projectID, field.ID)
		if err != nil {
			return nil, boardError("get_project_fields", "failed to re-read status field", err)
		}
		current = refreshed.Options
	}

	// Whatever is still on the field could not be deleted
	leftover := make(map[string]types.FieldOption, len(current))
	for _, option := range current {
		leftover[option.Name] = option
	}

	options := make([]types.FieldOption, 0, len(columns))
	for i, column := range columns {
		if kept, ok := leftover[column.Name]; ok {
			options = append(options, kept)
			continue
		}

		var created types.FieldOption
		err := g.do(ctx, "create_field_option", func(ctx context.Context) error {
			var err error
			created, err = g.client.CreateFieldOption(ctx, projectID, field.ID, optionInput(i, column))
			return err
		})
		if err != nil {
			return nil, errors.WithContextSafe(boardError("create_field_option", "failed to create column option", err), "column", column.Name)
		}
		options = append(options, created)
	}
	return options, nil
}

// nextOption returns the first option whose name has not been attempted yet
func nextOption(options []types.FieldOption, attempted map[string]struct{}) (types.FieldOption, bool) {
	for _, option := range options {
		if _, done := attempted[option.Name]; !done {
			return option, true
		}
	}
	return types.FieldOption{}, false
}

func (g *Generator) createFallbackField(ctx context.Context, projectID string, columns []types.BoardColumn) (*types.SingleSelectField, error) {
	g.logger.Debug("Project has no '%s' field, creating '%s'", g.options.StatusField, g.options.FallbackField)

	inputs := make([]types.FieldOptionInput, 0, len(columns))
	for i, column := range columns {
		inputs = append(inputs, optionInput(i, column))
	}

	var field *types.SingleSelectField
	err := g.do(ctx, "create_field", func(ctx context.Context) error {
		var err error
		field, err = g.client.CreateSingleSelectField(ctx, projectID, g.options.FallbackField, inputs)
		return err
	})
	if err != nil {
		return nil, errors.WithContextSafe(boardError("create_field", "failed to create status field", err), "field", g.options.FallbackField)
	}
	return field, nil
}

// resolveColumns maps each column to its option id. The field is read once more because
// rewriting options can reissue their ids; if that read fails the ids from the
// mutations are used.
func (g *Generator) resolveColumns(ctx context.Context, projectID, fieldID string, columns []types.BoardColumn, options []types.FieldOption) ([]types.FieldOption, error) {
	current := &types.SingleSelectField{ID: fieldID, Options: options}
	refreshed, err := g.fieldByID(ctx, projectID, fieldID)
	if err != nil {
		if stop := halt(ctx, "resolve_columns", err); stop != nil {
			return nil, stop
		}
		g.logger.Debug("Could not refresh field options, using ids from creation: %v", err)
	} else {
		current = refreshed
	}

	resolved := make([]types.FieldOption, 0, len(columns))
	for _, column := range columns {
		option, ok := current.OptionByName(column.Name)
		if !ok {
			fallback := &types.SingleSelectField{Options: options}
			if option, ok = fallback.OptionByName(column.Name); !ok {
				err := errors.ProjectError("resolve_columns", "status field has no option for column", nil)
				return nil, errors.WithContextSafe(err, "column", column.Name)
			}
		}
		resolved = append(resolved, option)
	}
	return resolved, nil
}

func (g *Generator) singleSelectFields(ctx context.Context, projectID string) ([]types.SingleSelectField, error) {
	var fields []types.SingleSelectField
	err := g.do(ctx, "get_project_fields", func(ctx context.Context) error {
		var err error
		fields, err = g.client.GetSingleSelectFields(ctx, projectID)
		return err
	})
	return fields, err
}

// fieldByID reads the project's fields and returns the one with fieldID
func (g *Generator) fieldByID(ctx context.Context, projectID, fieldID string) (*types.SingleSelectField, error) {
	fields, err := g.singleSelectFields(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		if fields[i].ID == fieldID {
			return &fields[i], nil
		}
	}
	return nil, errors.WithContextSafe(errors.ProjectError("find_field", "field is missing from the project", nil), "field", fieldID)
}

func findField(fields []types.SingleSelectField, name string) *types.SingleSelectField {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func optionInput(index int, column types.BoardColumn) types.FieldOptionInput {
	return types.FieldOptionInput{
		Name:        column.Name,
		Color:       config.OptionColor(index),
		Description: column.Description,
	}
}

// boardError wraps err in the project layer, leaving errors that stop the run untouched
func boardError(operation, message string, err error) error {
	if errors.IsLayer(err, "context") {
		return err
	}
	return errors.ProjectError(operation, fmt.Sprintf("board: %s", message), err)
}
