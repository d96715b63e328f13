package types

// RepositorySnapshot is a point-in-time read of a repository's labels and issue titles.
// It is taken once per generation run and never refreshed.
type RepositorySnapshot struct {
	Labels      map[string]Label
	IssueTitles map[string]struct{}
}

// NewRepositorySnapshot builds a snapshot from listed labels and issue titles.
func NewRepositorySnapshot(labels []Label, titles []string) *RepositorySnapshot {
	snapshot := &RepositorySnapshot{
		Labels:      make(map[string]Label, len(labels)),
		IssueTitles: make(map[string]struct{}, len(titles)),
	}
	for _, label := range labels {
		snapshot.Labels[label.Name] = label
	}
	for _, title := range titles {
		snapshot.IssueTitles[title] = struct{}{}
	}
	return snapshot
}

// HasIssueTitle reports whether an issue with exactly this title exists.
func (s *RepositorySnapshot) HasIssueTitle(title string) bool {
	_, ok := s.IssueTitles[title]
	return ok
}

// CreatedIssue is an issue created during a run, kept for board placement.
type CreatedIssue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	PhaseName string `json:"phaseName"`
}

// Stage names a step of the generation run.
type Stage string

const (
	StageLabels    Stage = "labels"
	StageIssues    Stage = "issues"
	StageBoard     Stage = "board"
	StagePlacement Stage = "placement"
)

// OutcomeStatus is what happened to a single item.
type OutcomeStatus string

const (
	StatusCreated   OutcomeStatus = "created"
	StatusUpdated   OutcomeStatus = "updated"
	StatusUnchanged OutcomeStatus = "unchanged"
	StatusSkipped   OutcomeStatus = "skipped"
	StatusFailed    OutcomeStatus = "failed"
	StatusPlaced    OutcomeStatus = "placed"
)

// Outcome records the result of one label, issue, board or placement step.
type Outcome struct {
	Stage   Stage         `json:"stage"`
	Subject string        `json:"subject"`
	Status  OutcomeStatus `json:"status"`
	Error   string        `json:"error,omitempty"`
}

// GenerationResult is what a generation run reports to its caller.
type GenerationResult struct {
	IssuesCreated   int       `json:"issuesCreated"`
	LabelsCreated   int       `json:"labelsCreated"`
	LabelsUpdated   int       `json:"labelsUpdated"`
	IssuesSkipped   int       `json:"issuesSkipped"`
	ProjectURL      string    `json:"projectUrl,omitempty"`
	LabelsUnchanged int       `json:"-"`
	Outcomes        []Outcome `json:"outcomes,omitempty"`
}

// Failures returns the outcomes with StatusFailed.
func (r *GenerationResult) Failures() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Status == StatusFailed {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Progress reports how far a stage has advanced.
type Progress struct {
	Stage   Stage
	Current int
	Total   int
}
