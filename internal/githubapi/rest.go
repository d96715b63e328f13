package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

const perPage = 100

// maxPages bounds pagination so a misbehaving server cannot loop us forever
const maxPages = 1000

type restLabel struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

type restIssue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type labelPayload struct {
	Name        string `json:"name,omitempty"`
	NewName     string `json:"new_name,omitempty"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type issuePayload struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Labels    []string `json:"labels,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
}

func repoPath(owner, repo string) string {
	return fmt.Sprintf("repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// ListLabels returns every label in the repository
func (c *GHClient) ListLabels(ctx context.Context, owner, repo string) ([]types.Label, error) {
	var labels []types.Label
	for page := 1; page <= maxPages; page++ {
		var batch []restLabel
		path := fmt.Sprintf("%s/labels?per_page=%d&page=%d", repoPath(owner, repo), perPage, page)
		if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &batch); err != nil {
			return nil, errors.APIError("list_labels", "failed to fetch labels", err)
		}
		for _, l := range batch {
			label := types.Label{Name: l.Name, Color: l.Color}
			if l.Description != nil {
				label.Description = *l.Description
			}
			labels = append(labels, label)
		}
		if len(batch) < perPage {
			break
		}
	}
	c.debugLog("Fetched %d labels from %s/%s", len(labels), owner, repo)
	return labels, nil
}

// CreateLabel creates a label, returning ErrAlreadyExists when GitHub reports a conflict
func (c *GHClient) CreateLabel(ctx context.Context, owner, repo string, label types.Label) error {
	body, err := jsonBody(labelPayload{Name: label.Name, Color: label.Color, Description: label.Description})
	if err != nil {
		return errors.APIError("create_label", "failed to encode label", err)
	}

	if err := c.rest.DoWithContext(ctx, http.MethodPost, repoPath(owner, repo)+"/labels", body, nil); err != nil {
		if isAlreadyExistsHTTP(err) {
			return fmt.Errorf("label %q: %w", label.Name, ErrAlreadyExists)
		}
		return errors.WithContextSafe(errors.APIError("create_label", "failed to create label", err), "label", label.Name)
	}
	c.debugLog("Created label %q", label.Name)
	return nil
}

// UpdateLabel overwrites the color and description of the label called name
func (c *GHClient) UpdateLabel(ctx context.Context, owner, repo, name string, label types.Label) error {
	payload := labelPayload{Color: label.Color, Description: label.Description}
	if label.Name != "" && label.Name != name {
		payload.NewName = label.Name
	}
	body, err := jsonBody(payload)
	if err != nil {
		return errors.APIError("update_label", "failed to encode label", err)
	}

	path := fmt.Sprintf("%s/labels/%s", repoPath(owner, repo), url.PathEscape(name))
	if err := c.rest.DoWithContext(ctx, http.MethodPatch, path, body, nil); err != nil {
		return errors.WithContextSafe(errors.APIError("update_label", "failed to update label", err), "label", name)
	}
	c.debugLog("Updated label %q", name)
	return nil
}

// ListIssueTitles returns the titles of all issues in any state, skipping pull requests
func (c *GHClient) ListIssueTitles(ctx context.Context, owner, repo string) ([]string, error) {
	var titles []string
	for page := 1; page <= maxPages; page++ {
		var batch []restIssue
		path := fmt.Sprintf("%s/issues?state=all&per_page=%d&page=%d", repoPath(owner, repo), perPage, page)
		if err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, &batch); err != nil {
			return nil, errors.APIError("list_issues", "failed to fetch issues", err)
		}
		for _, issue := range batch {
			if issue.PullRequest != nil {
				continue
			}
			titles = append(titles, issue.Title)
		}
		if len(batch) < perPage {
			break
		}
	}
	c.debugLog("Fetched %d issue titles from %s/%s", len(titles), owner, repo)
	return titles, nil
}

// CreateIssue creates an issue and returns its number
func (c *GHClient) CreateIssue(ctx context.Context, owner, repo string, issue types.Issue) (int, error) {
	body, err := jsonBody(issuePayload{
		Title:     issue.Title,
		Body:      issue.Body,
		Labels:    issue.Labels,
		Assignees: issue.Assignees,
	})
	if err != nil {
		return 0, errors.APIError("create_issue", "failed to encode issue", err)
	}

	var created restIssue
	if err := c.rest.DoWithContext(ctx, http.MethodPost, repoPath(owner, repo)+"/issues", body, &created); err != nil {
		return 0, errors.WithContextSafe(errors.APIError("create_issue", "failed to create issue", err), "title", issue.Title)
	}
	if created.Number <= 0 {
		return 0, errors.APIError("create_issue", "response has no issue number", ErrMalformedResponse)
	}
	c.debugLog("Created issue #%d %q", created.Number, issue.Title)
	return created.Number, nil
}

// VerifyAccess checks the repository is reachable with the current credentials
func (c *GHClient) VerifyAccess(ctx context.Context, owner, repo string) error {
	var response struct {
		FullName string `json:"full_name"`
	}
	if err := c.rest.DoWithContext(ctx, http.MethodGet, repoPath(owner, repo), nil, &response); err != nil {
		return errors.WithContextSafe(errors.APIError("verify_access", "cannot access repository", err), "repository", owner+"/"+repo)
	}
	c.debugLog("Verified access to %s", response.FullName)
	return nil
}

// TokenScopes returns the OAuth scopes granted to the current token.
// Fine-grained tokens report no scopes.
func (c *GHClient) TokenScopes(ctx context.Context) ([]string, error) {
	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, "user", nil)
	if err != nil {
		return nil, errors.APIError("token_scopes", "failed to fetch current user", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	var scopes []string
	for _, scope := range strings.Split(resp.Header.Get("X-OAuth-Scopes"), ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes, nil
}
