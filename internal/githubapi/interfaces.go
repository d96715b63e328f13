package githubapi

import (
	"context"

	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// RepositoryIDs holds the GraphQL node IDs needed to create a project linked to a repository.
type RepositoryIDs struct {
	OwnerID      string
	OwnerLogin   string
	RepositoryID string
}

// RepositoryClient defines the interface for working with repository labels and issues
type RepositoryClient interface {
	ListLabels(ctx context.Context, owner, repo string) ([]types.Label, error)
	// CreateLabel returns an error wrapping ErrAlreadyExists when the label is already there.
	CreateLabel(ctx context.Context, owner, repo string, label types.Label) error
	UpdateLabel(ctx context.Context, owner, repo, name string, label types.Label) error
	// ListIssueTitles returns the titles of all issues, open and closed, excluding pull requests.
	ListIssueTitles(ctx context.Context, owner, repo string) ([]string, error)
	CreateIssue(ctx context.Context, owner, repo string, issue types.Issue) (int, error)
}

// AccessClient defines the checks run before a generation starts
type AccessClient interface {
	VerifyAccess(ctx context.Context, owner, repo string) error
	TokenScopes(ctx context.Context) ([]string, error)
}

// ProjectClient defines the interface for working with GitHub Projects (v2)
type ProjectClient interface {
	ResolveOwnerAndRepoIDs(ctx context.Context, owner, repo string) (RepositoryIDs, error)
	CreateProject(ctx context.Context, ownerID, repositoryID, title string) (*types.ProjectV2, error)
	GetSingleSelectFields(ctx context.Context, projectID string) ([]types.SingleSelectField, error)
	DeleteFieldOption(ctx context.Context, projectID, fieldID, optionID string) error
	CreateFieldOption(ctx context.Context, projectID, fieldID string, option types.FieldOptionInput) (types.FieldOption, error)
	CreateSingleSelectField(ctx context.Context, projectID, name string, options []types.FieldOptionInput) (*types.SingleSelectField, error)
	ResolveIssueNodeID(ctx context.Context, owner, repo string, number int) (string, error)
	AddItemToProject(ctx context.Context, projectID, contentID string) (string, error)
	SetSingleSelectFieldValue(ctx context.Context, projectID, itemID, fieldID, optionID string) error
}

// GitHubClient combines the interfaces the board generator needs
type GitHubClient interface {
	RepositoryClient
	ProjectClient
}
