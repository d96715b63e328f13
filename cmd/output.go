package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chrisreddington/gh-boardkit/internal/types"
)

func writeJSON(w io.Writer, payload interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func writeSummary(w io.Writer, owner, repo string, result *types.GenerationResult, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "Dry run for %s/%s, nothing was changed\n", owner, repo)
	} else {
		fmt.Fprintf(w, "Generated %s/%s\n", owner, repo)
	}
	fmt.Fprintf(w, "  Labels: %d created, %d updated, %d unchanged\n",
		result.LabelsCreated, result.LabelsUpdated, result.LabelsUnchanged)
	fmt.Fprintf(w, "  Issues: %d created, %d skipped\n", result.IssuesCreated, result.IssuesSkipped)
	if result.ProjectURL != "" {
		fmt.Fprintf(w, "  Project: %s\n", result.ProjectURL)
	}

	failures := result.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "  Failures (%d):\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "    - [%s] %s: %s\n", f.Stage, f.Subject, f.Error)
	}
}
