package testutil

import (
	"fmt"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// TestDataFactory provides common test data creation patterns
type TestDataFactory struct{}

// CreateTestIssue creates a test issue with default values
func (f *TestDataFactory) CreateTestIssue(title string) types.Issue {
	if title == "" {
		title = "Test Issue"
	}
	return types.Issue{
		Title:  title,
		Body:   "Test issue body",
		Labels: []string{"test"},
	}
}

// CreateTestLabel creates a test label with default values
func (f *TestDataFactory) CreateTestLabel(name string) types.Label {
	if name == "" {
		name = "test-label"
	}
	return types.Label{
		Name:        name,
		Color:       "FF0000",
		Description: "Test label description",
	}
}

// CreateTestPhase creates a phase holding one issue per title
func (f *TestDataFactory) CreateTestPhase(name string, titles ...string) types.Phase {
	phase := types.Phase{Name: name, Description: name + " phase"}
	for _, title := range titles {
		phase.Issues = append(phase.Issues, types.Issue{Title: title, Body: "Body of " + title})
	}
	return phase
}

// CreateTestTemplate creates a template with the given labels and phases
func (f *TestDataFactory) CreateTestTemplate(labels []types.Label, phases ...types.Phase) *types.Template {
	return &types.Template{
		ID:          "test-template",
		Name:        "Test Template",
		Description: "Template used in tests",
		Labels:      labels,
		Phases:      phases,
	}
}

// CreateTestBoard creates an enabled custom board with the given column names
func (f *TestDataFactory) CreateTestBoard(columns ...string) *types.BoardConfiguration {
	board := &types.BoardConfiguration{
		Enabled:   true,
		BoardType: types.BoardTypeCustom,
	}
	for _, name := range columns {
		board.Columns = append(board.Columns, types.BoardColumn{Name: name})
	}
	return board
}

// MockLogger provides a simple mock logger for testing
type MockLogger struct {
	LastMessage string
	DebugCalls  []string
	InfoCalls   []string
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.LastMessage = fmt.Sprintf(format, args...)
	m.DebugCalls = append(m.DebugCalls, m.LastMessage)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.LastMessage = fmt.Sprintf(format, args...)
	m.InfoCalls = append(m.InfoCalls, m.LastMessage)
}

// HasInfo reports whether any Info message contains substr
func (m *MockLogger) HasInfo(substr string) bool {
	for _, msg := range m.InfoCalls {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Verify MockLogger implements common.Logger interface
var _ common.Logger = (*MockLogger)(nil)

// DefaultValues provides common default values used across different mock implementations
var DefaultValues = struct {
	OwnerID      string
	OwnerLogin   string
	RepositoryID string
	FirstIssue   int
	ProjectHost  string
}{
	OwnerID:      "owner-id-123",
	OwnerLogin:   "octo-org",
	RepositoryID: "repo-id-123",
	FirstIssue:   1,
	ProjectHost:  "https://github.com",
}
