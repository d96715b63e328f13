package githubapi

import (
	"context"
	"fmt"

	graphql "github.com/cli/shurcooL-graphql"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

const defaultOptionColor = "GRAY"

// ResolveOwnerAndRepoIDs looks up the node IDs needed to create a repository-linked project
func (c *GHClient) ResolveOwnerAndRepoIDs(ctx context.Context, owner, repo string) (RepositoryIDs, error) {
	var query repositoryIDsQuery
	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"name":  graphql.String(repo),
	}

	if err := c.gql.QueryWithContext(ctx, "RepositoryIDs", &query, variables); err != nil {
		return RepositoryIDs{}, errors.APIError("resolve_repository_ids", "failed to fetch repository ids", err)
	}
	if query.Repository.ID == "" || query.Repository.Owner.ID == "" {
		return RepositoryIDs{}, errors.APIError("resolve_repository_ids", "response has no repository or owner id", ErrMalformedResponse)
	}

	return RepositoryIDs{
		OwnerID:      query.Repository.Owner.ID,
		OwnerLogin:   query.Repository.Owner.Login,
		RepositoryID: query.Repository.ID,
	}, nil
}

// CreateProject creates a project owned by ownerID and linked to repositoryID
func (c *GHClient) CreateProject(ctx context.Context, ownerID, repositoryID, title string) (*types.ProjectV2, error) {
	variables := map[string]interface{}{
		"ownerId": ownerID,
		"title":   title,
	}
	if repositoryID != "" {
		variables["repositoryId"] = repositoryID
	}

	var response createProjectResponse
	if err := c.gql.DoWithContext(ctx, createProjectMutation, variables, &response); err != nil {
		return nil, errors.WithContextSafe(errors.APIError("create_project", "failed to create project", err), "title", title)
	}

	p := response.CreateProjectV2.ProjectV2
	if p.ID == "" {
		return nil, errors.APIError("create_project", "response has no project id", ErrMalformedResponse)
	}
	c.debugLog("Created project #%d %q (%s)", p.Number, p.Title, p.URL)
	return &types.ProjectV2{ID: p.ID, Number: p.Number, Title: p.Title, URL: p.URL}, nil
}

// GetSingleSelectFields lists the single-select fields of a project
func (c *GHClient) GetSingleSelectFields(ctx context.Context, projectID string) ([]types.SingleSelectField, error) {
	nodes, err := c.fetchSingleSelectFields(ctx, projectID)
	if err != nil {
		return nil, err
	}

	fields := make([]types.SingleSelectField, 0, len(nodes))
	for _, node := range nodes {
		fields = append(fields, toSingleSelectField(node))
	}
	return fields, nil
}

func (c *GHClient) fetchSingleSelectFields(ctx context.Context, projectID string) ([]singleSelectFieldNode, error) {
	var response projectFieldsResponse
	variables := map[string]interface{}{"projectId": projectID}
	if err := c.gql.DoWithContext(ctx, projectFieldsQuery, variables, &response); err != nil {
		return nil, errors.WithContextSafe(errors.APIError("get_project_fields", "failed to fetch project fields", err), "project", projectID)
	}

	var nodes []singleSelectFieldNode
	for _, node := range response.Node.Fields.Nodes {
		if node.ID == "" {
			continue
		}
		nodes = append(nodes, node)
	}
	c.debugLog("Project %s has %d single-select fields", projectID, len(nodes))
	return nodes, nil
}

func (c *GHClient) findField(ctx context.Context, projectID, fieldID string) (singleSelectFieldNode, error) {
	nodes, err := c.fetchSingleSelectFields(ctx, projectID)
	if err != nil {
		return singleSelectFieldNode{}, err
	}
	for _, node := range nodes {
		if node.ID == fieldID {
			return node, nil
		}
	}
	err = errors.ProjectError("find_field", "single-select field not found in project", nil)
	return singleSelectFieldNode{}, errors.WithContextSafe(err, "field", fieldID)
}

// DeleteFieldOption removes one option by rewriting the field with the remaining options
func (c *GHClient) DeleteFieldOption(ctx context.Context, projectID, fieldID, optionID string) error {
	field, err := c.findField(ctx, projectID, fieldID)
	if err != nil {
		return err
	}

	remaining := make([]types.FieldOptionInput, 0, len(field.Options))
	found := false
	for _, option := range field.Options {
		if option.ID == optionID {
			found = true
			continue
		}
		remaining = append(remaining, toOptionInput(option))
	}
	if !found {
		return errors.NewLayeredError("project", "delete_field_option", "option not found on field", nil).
			WithContext("field", fieldID).
			WithContext("option", optionID)
	}

	if _, err := c.updateFieldOptions(ctx, "delete_field_option", fieldID, remaining); err != nil {
		return err
	}
	c.debugLog("Deleted option %s from field %s", optionID, fieldID)
	return nil
}

// CreateFieldOption appends an option to a single-select field and returns it
func (c *GHClient) CreateFieldOption(ctx context.Context, projectID, fieldID string, option types.FieldOptionInput) (types.FieldOption, error) {
	field, err := c.findField(ctx, projectID, fieldID)
	if err != nil {
		return types.FieldOption{}, err
	}

	options := make([]types.FieldOptionInput, 0, len(field.Options)+1)
	for _, existing := range field.Options {
		options = append(options, toOptionInput(existing))
	}
	if option.Color == "" {
		option.Color = defaultOptionColor
	}
	options = append(options, option)

	updated, err := c.updateFieldOptions(ctx, "create_field_option", fieldID, options)
	if err != nil {
		return types.FieldOption{}, err
	}

	for _, o := range updated.Options {
		if o.Name == option.Name && o.ID != "" {
			c.debugLog("Created option %q (%s) on field %s", o.Name, o.ID, fieldID)
			return types.FieldOption{ID: o.ID, Name: o.Name}, nil
		}
	}
	return types.FieldOption{}, errors.WithContextSafe(
		errors.APIError("create_field_option", "response does not contain the new option", ErrMalformedResponse),
		"option", option.Name)
}

func (c *GHClient) updateFieldOptions(ctx context.Context, operation, fieldID string, options []types.FieldOptionInput) (singleSelectFieldNode, error) {
	variables := map[string]interface{}{
		"fieldId": fieldID,
		"options": options,
	}

	var response updateFieldResponse
	if err := c.gql.DoWithContext(ctx, updateFieldOptionsMutation, variables, &response); err != nil {
		return singleSelectFieldNode{}, errors.WithContextSafe(errors.APIError(operation, "failed to update field options", err), "field", fieldID)
	}
	if response.UpdateProjectV2Field.ProjectV2Field.ID == "" {
		return singleSelectFieldNode{}, errors.APIError(operation, "response has no field id", ErrMalformedResponse)
	}
	return response.UpdateProjectV2Field.ProjectV2Field, nil
}

// CreateSingleSelectField adds a single-select field to a project
func (c *GHClient) CreateSingleSelectField(ctx context.Context, projectID, name string, options []types.FieldOptionInput) (*types.SingleSelectField, error) {
	for i := range options {
		if options[i].Color == "" {
			options[i].Color = defaultOptionColor
		}
	}
	variables := map[string]interface{}{
		"projectId": projectID,
		"name":      name,
		"options":   options,
	}

	var response createFieldResponse
	if err := c.gql.DoWithContext(ctx, createSingleSelectFieldMutation, variables, &response); err != nil {
		return nil, errors.WithContextSafe(errors.APIError("create_field", "failed to create field", err), "field", name)
	}

	node := response.CreateProjectV2Field.ProjectV2Field
	if node.ID == "" {
		return nil, errors.APIError("create_field", "response has no field id", ErrMalformedResponse)
	}
	field := toSingleSelectField(node)
	c.debugLog("Created field %q with %d options", field.Name, len(field.Options))
	return &field, nil
}

// ResolveIssueNodeID returns the node ID of issue number in owner/repo
func (c *GHClient) ResolveIssueNodeID(ctx context.Context, owner, repo string, number int) (string, error) {
	var query issueNodeIDQuery
	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(repo),
		"number": graphql.Int(number),
	}

	if err := c.gql.QueryWithContext(ctx, "IssueNodeID", &query, variables); err != nil {
		err = errors.APIError("resolve_issue_id", "failed to fetch issue id", err)
		return "", errors.WithContextSafe(err, "issue", fmt.Sprintf("#%d", number))
	}
	if query.Repository.Issue.ID == "" {
		return "", errors.APIError("resolve_issue_id", "response has no issue id", ErrMalformedResponse)
	}
	return query.Repository.Issue.ID, nil
}

// AddItemToProject adds content (an issue node) to a project and returns the item ID
func (c *GHClient) AddItemToProject(ctx context.Context, projectID, contentID string) (string, error) {
	variables := map[string]interface{}{
		"projectId": projectID,
		"contentId": contentID,
	}

	var response addItemResponse
	if err := c.gql.DoWithContext(ctx, addItemMutation, variables, &response); err != nil {
		return "", errors.APIError("add_project_item", "failed to add item to project", err)
	}
	if response.AddProjectV2ItemByID.Item.ID == "" {
		return "", errors.APIError("add_project_item", "response has no item id", ErrMalformedResponse)
	}
	return response.AddProjectV2ItemByID.Item.ID, nil
}

// SetSingleSelectFieldValue moves a project item into the given option
func (c *GHClient) SetSingleSelectFieldValue(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	variables := map[string]interface{}{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"optionId":  optionID,
	}

	var response setFieldValueResponse
	if err := c.gql.DoWithContext(ctx, setSingleSelectValueMutation, variables, &response); err != nil {
		return errors.APIError("set_field_value", "failed to set field value", err)
	}
	if response.UpdateProjectV2ItemFieldValue.ProjectV2Item.ID == "" {
		return errors.APIError("set_field_value", "response has no item id", ErrMalformedResponse)
	}
	return nil
}

func toSingleSelectField(node singleSelectFieldNode) types.SingleSelectField {
	field := types.SingleSelectField{ID: node.ID, Name: node.Name}
	for _, option := range node.Options {
		field.Options = append(field.Options, types.FieldOption{ID: option.ID, Name: option.Name})
	}
	return field
}

func toOptionInput(option fieldOptionNode) types.FieldOptionInput {
	color := option.Color
	if color == "" {
		color = defaultOptionColor
	}
	return types.FieldOptionInput{Name: option.Name, Color: color, Description: option.Description}
}
