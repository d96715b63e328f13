package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/githubapi"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// GitHubClientMockConfig allows configuration of the mock GitHubClient behavior
type GitHubClientMockConfig struct {
	// Failures maps a call key ("CreateLabel:bug", "CreateProject", "AddItemToProject:I_2")
	// or a bare method name to the error that call returns.
	Failures map[string]error
	// FailuresOnce work like Failures but fire only on the first matching call
	FailuresOnce map[string]error
	// UnlistedLabels exist in the repository but are missing from ListLabels, like a stale read
	UnlistedLabels map[string]types.Label
	// NoStatusField makes new projects start without a Status field
	NoStatusField bool
	// ReissueOptionIDs gives every option a new id whenever a field's options are rewritten
	ReissueOptionIDs bool
	// Scopes are returned by TokenScopes
	Scopes []string
}

// MockProject is the state of a project created through the mock
type MockProject struct {
	types.ProjectV2
	RepositoryID string
	Fields       []*types.SingleSelectField
	// Items maps item id to content (issue node) id
	Items map[string]string
	// Values maps item id to the option id of its single-select value
	Values map[string]string
}

// GitHubClientMock is an in-memory GitHub used to exercise the generator end to end
type GitHubClientMock struct {
	Config   GitHubClientMockConfig
	Labels   map[string]types.Label
	Issues   []types.Issue
	Projects []*MockProject
	Calls    []string
	logger   common.Logger

	nextOptionID int
}

var (
	_ githubapi.GitHubClient = (*GitHubClientMock)(nil)
	_ githubapi.AccessClient = (*GitHubClientMock)(nil)
)

// NewGitHubClientMock creates a mock repository holding the given labels and issue titles
func NewGitHubClientMock(labels []types.Label, issueTitles ...string) *GitHubClientMock {
	m := &GitHubClientMock{
		Config: GitHubClientMockConfig{
			Failures:       map[string]error{},
			UnlistedLabels: map[string]types.Label{},
			Scopes:         []string{"repo", "project"},
		},
		Labels: map[string]types.Label{},
	}
	for _, label := range labels {
		m.Labels[label.Name] = label
	}
	for _, title := range issueTitles {
		m.Issues = append(m.Issues, types.Issue{Title: title})
	}
	return m
}

// FailOn makes the call identified by key return err
func (m *GitHubClientMock) FailOn(key string, err error) {
	if m.Config.Failures == nil {
		m.Config.Failures = map[string]error{}
	}
	m.Config.Failures[key] = err
}

// FailOnceOn makes only the next call identified by key return err
func (m *GitHubClientMock) FailOnceOn(key string, err error) {
	if m.Config.FailuresOnce == nil {
		m.Config.FailuresOnce = map[string]error{}
	}
	m.Config.FailuresOnce[key] = err
}

func (m *GitHubClientMock) SetLogger(logger common.Logger) {
	m.logger = logger
}

// call records the call and returns any configured failure for it
func (m *GitHubClientMock) call(method, subject string) error {
	key := method
	if subject != "" {
		key = method + ":" + subject
	}
	m.Calls = append(m.Calls, key)
	for _, k := range []string{key, method} {
		if err, ok := m.Config.FailuresOnce[k]; ok {
			delete(m.Config.FailuresOnce, k)
			return err
		}
	}
	if err, ok := m.Config.Failures[key]; ok {
		return err
	}
	if err, ok := m.Config.Failures[method]; ok {
		return err
	}
	return nil
}

// CallsTo returns the recorded call keys for method, in order
func (m *GitHubClientMock) CallsTo(method string) []string {
	var calls []string
	prefix := method + ":"
	for _, c := range m.Calls {
		if c == method || (len(c) > len(prefix) && c[:len(prefix)] == prefix) {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *GitHubClientMock) VerifyAccess(ctx context.Context, owner, repo string) error {
	return m.call("VerifyAccess", owner+"/"+repo)
}

func (m *GitHubClientMock) TokenScopes(ctx context.Context) ([]string, error) {
	if err := m.call("TokenScopes", ""); err != nil {
		return nil, err
	}
	return m.Config.Scopes, nil
}

func (m *GitHubClientMock) ListLabels(ctx context.Context, owner, repo string) ([]types.Label, error) {
	if err := m.call("ListLabels", ""); err != nil {
		return nil, err
	}
	labels := make([]types.Label, 0, len(m.Labels))
	for name, label := range m.Labels {
		if _, hidden := m.Config.UnlistedLabels[name]; hidden {
			continue
		}
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels, nil
}

func (m *GitHubClientMock) CreateLabel(ctx context.Context, owner, repo string, label types.Label) error {
	if err := m.call("CreateLabel", label.Name); err != nil {
		return err
	}
	if _, exists := m.Labels[label.Name]; exists {
		return fmt.Errorf("label %q: %w", label.Name, githubapi.ErrAlreadyExists)
	}
	if hidden, ok := m.Config.UnlistedLabels[label.Name]; ok {
		m.Labels[label.Name] = hidden
		return fmt.Errorf("label %q: %w", label.Name, githubapi.ErrAlreadyExists)
	}
	m.Labels[label.Name] = label
	return nil
}

func (m *GitHubClientMock) UpdateLabel(ctx context.Context, owner, repo, name string, label types.Label) error {
	if err := m.call("UpdateLabel", name); err != nil {
		return err
	}
	if _, exists := m.Labels[name]; !exists {
		return fmt.Errorf("label %q not found", name)
	}
	delete(m.Config.UnlistedLabels, name)
	m.Labels[name] = label
	return nil
}

func (m *GitHubClientMock) ListIssueTitles(ctx context.Context, owner, repo string) ([]string, error) {
	if err := m.call("ListIssueTitles", ""); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(m.Issues))
	for _, issue := range m.Issues {
		titles = append(titles, issue.Title)
	}
	return titles, nil
}

func (m *GitHubClientMock) CreateIssue(ctx context.Context, owner, repo string, issue types.Issue) (int, error) {
	if err := m.call("CreateIssue", issue.Title); err != nil {
		return 0, err
	}
	m.Issues = append(m.Issues, issue)
	return len(m.Issues), nil
}

// IssueByTitle returns the number and content of the first issue with title
func (m *GitHubClientMock) IssueByTitle(title string) (int, types.Issue, bool) {
	for i, issue := range m.Issues {
		if issue.Title == title {
			return i + 1, issue, true
		}
	}
	return 0, types.Issue{}, false
}

func (m *GitHubClientMock) ResolveOwnerAndRepoIDs(ctx context.Context, owner, repo string) (githubapi.RepositoryIDs, error) {
	if err := m.call("ResolveOwnerAndRepoIDs", ""); err != nil {
		return githubapi.RepositoryIDs{}, err
	}
	return githubapi.RepositoryIDs{
		OwnerID:      DefaultValues.OwnerID,
		OwnerLogin:   owner,
		RepositoryID: DefaultValues.RepositoryID,
	}, nil
}

func (m *GitHubClientMock) CreateProject(ctx context.Context, ownerID, repositoryID, title string) (*types.ProjectV2, error) {
	if err := m.call("CreateProject", ""); err != nil {
		return nil, err
	}
	number := len(m.Projects) + 1
	project := &MockProject{
		ProjectV2: types.ProjectV2{
			ID:     fmt.Sprintf("PVT_%d", number),
			Number: number,
			Title:  title,
			URL:    fmt.Sprintf("%s/orgs/%s/projects/%d", DefaultValues.ProjectHost, DefaultValues.OwnerLogin, number),
		},
		RepositoryID: repositoryID,
		Items:        map[string]string{},
		Values:       map[string]string{},
	}
	if !m.Config.NoStatusField {
		project.Fields = append(project.Fields, &types.SingleSelectField{
			ID:   fmt.Sprintf("PVTSSF_%d_status", number),
			Name: "Status",
			Options: []types.FieldOption{
				m.newOption("Todo"), m.newOption("In Progress"), m.newOption("Done"),
			},
		})
	}
	m.Projects = append(m.Projects, project)
	p := project.ProjectV2
	return &p, nil
}

func (m *GitHubClientMock) newOption(name string) types.FieldOption {
	m.nextOptionID++
	return types.FieldOption{ID: fmt.Sprintf("OPT_%d", m.nextOptionID), Name: name}
}

func (m *GitHubClientMock) project(id string) (*MockProject, error) {
	for _, p := range m.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s not found", id)
}

func (m *GitHubClientMock) field(projectID, fieldID string) (*MockProject, *types.SingleSelectField, error) {
	p, err := m.project(projectID)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range p.Fields {
		if f.ID == fieldID {
			return p, f, nil
		}
	}
	return nil, nil, fmt.Errorf("field %s not found", fieldID)
}

func (m *GitHubClientMock) reissue(field *types.SingleSelectField) {
	if !m.Config.ReissueOptionIDs {
		return
	}
	for i := range field.Options {
		field.Options[i] = m.newOption(field.Options[i].Name)
	}
}

func (m *GitHubClientMock) GetSingleSelectFields(ctx context.Context, projectID string) ([]types.SingleSelectField, error) {
	if err := m.call("GetSingleSelectFields", ""); err != nil {
		return nil, err
	}
	p, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	fields := make([]types.SingleSelectField, 0, len(p.Fields))
	for _, f := range p.Fields {
		copied := *f
		copied.Options = append([]types.FieldOption(nil), f.Options...)
		fields = append(fields, copied)
	}
	return fields, nil
}

func (m *GitHubClientMock) DeleteFieldOption(ctx context.Context, projectID, fieldID, optionID string) error {
	if err := m.call("DeleteFieldOption", optionID); err != nil {
		return err
	}
	_, f, err := m.field(projectID, fieldID)
	if err != nil {
		return err
	}
	for i, o := range f.Options {
		if o.ID == optionID {
			f.Options = append(f.Options[:i], f.Options[i+1:]...)
			m.reissue(f)
			return nil
		}
	}
	return fmt.Errorf("option %s not found on field %s", optionID, fieldID)
}

func (m *GitHubClientMock) CreateFieldOption(ctx context.Context, projectID, fieldID string, option types.FieldOptionInput) (types.FieldOption, error) {
	if err := m.call("CreateFieldOption", option.Name); err != nil {
		return types.FieldOption{}, err
	}
	_, f, err := m.field(projectID, fieldID)
	if err != nil {
		return types.FieldOption{}, err
	}
	m.reissue(f)
	created := m.newOption(option.Name)
	f.Options = append(f.Options, created)
	return created, nil
}

func (m *GitHubClientMock) CreateSingleSelectField(ctx context.Context, projectID, name string, options []types.FieldOptionInput) (*types.SingleSelectField, error) {
	if err := m.call("CreateSingleSelectField", name); err != nil {
		return nil, err
	}
	p, err := m.project(projectID)
	if err != nil {
		return nil, err
	}
	field := &types.SingleSelectField{ID: fmt.Sprintf("PVTSSF_%d_%d", p.Number, len(p.Fields)+1), Name: name}
	for _, o := range options {
		field.Options = append(field.Options, m.newOption(o.Name))
	}
	p.Fields = append(p.Fields, field)
	copied := *field
	copied.Options = append([]types.FieldOption(nil), field.Options...)
	return &copied, nil
}

func (m *GitHubClientMock) ResolveIssueNodeID(ctx context.Context, owner, repo string, number int) (string, error) {
	if err := m.call("ResolveIssueNodeID", fmt.Sprintf("%d", number)); err != nil {
		return "", err
	}
	if number < 1 || number > len(m.Issues) {
		return "", fmt.Errorf("issue #%d not found", number)
	}
	return fmt.Sprintf("I_%d", number), nil
}

func (m *GitHubClientMock) AddItemToProject(ctx context.Context, projectID, contentID string) (string, error) {
	if err := m.call("AddItemToProject", contentID); err != nil {
		return "", err
	}
	p, err := m.project(projectID)
	if err != nil {
		return "", err
	}
	itemID := fmt.Sprintf("PVTI_%d", len(p.Items)+1)
	p.Items[itemID] = contentID
	return itemID, nil
}

func (m *GitHubClientMock) SetSingleSelectFieldValue(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	if err := m.call("SetSingleSelectFieldValue", itemID); err != nil {
		return err
	}
	p, f, err := m.field(projectID, fieldID)
	if err != nil {
		return err
	}
	if _, ok := p.Items[itemID]; !ok {
		return fmt.Errorf("item %s not found", itemID)
	}
	for _, o := range f.Options {
		if o.ID == optionID {
			p.Values[itemID] = optionID
			return nil
		}
	}
	return fmt.Errorf("option %s does not exist on field %s", optionID, fieldID)
}

// ItemColumn returns the name of the option set on the project item for issue number
func (m *GitHubClientMock) ItemColumn(project *MockProject, fieldName string, number int) (string, bool) {
	contentID := fmt.Sprintf("I_%d", number)
	for itemID, content := range project.Items {
		if content != contentID {
			continue
		}
		optionID, ok := project.Values[itemID]
		if !ok {
			return "", false
		}
		for _, f := range project.Fields {
			if f.Name != fieldName {
				continue
			}
			for _, o := range f.Options {
				if o.ID == optionID {
					return o.Name, true
				}
			}
		}
	}
	return "", false
}
