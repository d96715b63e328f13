package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

var hexColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// LoadTemplate reads a template from a JSON or YAML file (chosen by extension),
// normalizes label colors and validates it.
func LoadTemplate(ctx context.Context, path string) (*types.Template, error) {
	var tmpl types.Template
	if err := decodeFile(ctx, "read_template", path, &tmpl); err != nil {
		return nil, err
	}
	if err := prepareTemplate(&tmpl); err != nil {
		return nil, errors.WithContextSafe(err, "path", path)
	}
	return &tmpl, nil
}

func prepareTemplate(tmpl *types.Template) error {
	for i := range tmpl.Labels {
		tmpl.Labels[i].Color = strings.TrimPrefix(strings.TrimSpace(tmpl.Labels[i].Color), "#")
	}
	return ValidateTemplate(tmpl)
}

// LoadBoardConfiguration reads a board configuration from a JSON or YAML file.
func LoadBoardConfiguration(ctx context.Context, path string) (*types.BoardConfiguration, error) {
	var board types.BoardConfiguration
	if err := decodeFile(ctx, "read_board_config", path, &board); err != nil {
		return nil, err
	}
	if board.BoardType == "" {
		board.BoardType = types.BoardTypeCustom
	}
	// An explicit empty list means no columns; only an absent one takes the preset
	if board.Columns == nil {
		board.Columns = PresetColumns(board.BoardType)
	}
	return &board, nil
}

func decodeFile(ctx context.Context, operation, path string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return errors.ContextError(operation, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.FileError(operation, "failed to read file", err)
		return errors.WithContextSafe(err, "path", path)
	}
	if err := decode(data, path, out); err != nil {
		err = errors.FileError(operation, "failed to parse file", err)
		return errors.WithContextSafe(err, "path", path)
	}
	return nil
}

// decode parses YAML for .yaml and .yml names and JSON otherwise
func decode(data []byte, name string, out interface{}) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return json.Unmarshal(data, out)
	}
}

// ValidateTemplate checks the invariants the generator relies on: unique label and phase
// names, six-digit hex colors and non-empty issue titles.
func ValidateTemplate(tmpl *types.Template) error {
	var problems []string

	labelNames := make(map[string]struct{}, len(tmpl.Labels))
	for i, label := range tmpl.Labels {
		if strings.TrimSpace(label.Name) == "" {
			problems = append(problems, fmt.Sprintf("label #%d has no name", i+1))
			continue
		}
		if _, dup := labelNames[label.Name]; dup {
			problems = append(problems, fmt.Sprintf("label %q is defined more than once", label.Name))
		}
		labelNames[label.Name] = struct{}{}
		if !hexColorPattern.MatchString(label.Color) {
			problems = append(problems, fmt.Sprintf("label %q has invalid color %q (want 6 hex digits)", label.Name, label.Color))
		}
	}

	phaseNames := make(map[string]struct{}, len(tmpl.Phases))
	for i, phase := range tmpl.Phases {
		if strings.TrimSpace(phase.Name) == "" {
			problems = append(problems, fmt.Sprintf("phase #%d has no name", i+1))
		} else if _, dup := phaseNames[phase.Name]; dup {
			problems = append(problems, fmt.Sprintf("phase %q is defined more than once", phase.Name))
		}
		phaseNames[phase.Name] = struct{}{}
		for j, issue := range phase.Issues {
			if strings.TrimSpace(issue.Title) == "" {
				problems = append(problems, fmt.Sprintf("issue #%d in phase %q has no title", j+1, phase.Name))
			}
		}
	}

	if len(problems) > 0 {
		return errors.ValidationError("validate_template", strings.Join(problems, "; "))
	}
	return nil
}

// TemplateWarnings lists issue label references that the template does not define.
// GitHub decides what happens to them, so they are reported, not rejected.
func TemplateWarnings(tmpl *types.Template) []string {
	defined := make(map[string]struct{}, len(tmpl.Labels))
	for _, label := range tmpl.Labels {
		defined[label.Name] = struct{}{}
	}

	var warnings []string
	reported := make(map[string]struct{})
	for _, phase := range tmpl.Phases {
		for _, issue := range phase.Issues {
			for _, name := range issue.Labels {
				if _, ok := defined[name]; ok {
					continue
				}
				if _, seen := reported[name]; seen {
					continue
				}
				reported[name] = struct{}{}
				warnings = append(warnings, fmt.Sprintf("issue %q uses label %q which the template does not define", issue.Title, name))
			}
		}
	}
	return warnings
}
