package config

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

//go:embed templates/*.json templates/*.yaml
var builtinFS embed.FS

// BuiltinTemplates returns the templates shipped with the extension, ordered by ID.
// Every call returns fresh copies.
func BuiltinTemplates() ([]*types.Template, error) {
	entries, err := fs.ReadDir(builtinFS, "templates")
	if err != nil {
		return nil, errors.FileError("read_builtin_templates", "failed to list built-in templates", err)
	}

	templates := make([]*types.Template, 0, len(entries))
	for _, entry := range entries {
		name := path.Join("templates", entry.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, errors.WithContextSafe(errors.FileError("read_builtin_templates", "failed to read file", err), "path", name)
		}

		var tmpl types.Template
		if err := decode(data, name, &tmpl); err != nil {
			return nil, errors.WithContextSafe(errors.FileError("read_builtin_templates", "failed to parse file", err), "path", name)
		}
		if err := prepareTemplate(&tmpl); err != nil {
			return nil, errors.WithContextSafe(err, "path", name)
		}
		templates = append(templates, &tmpl)
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// BuiltinTemplate returns the built-in template with the given ID
func BuiltinTemplate(id string) (*types.Template, bool, error) {
	templates, err := BuiltinTemplates()
	if err != nil {
		return nil, false, err
	}
	for _, tmpl := range templates {
		if tmpl.ID == id {
			return tmpl, true, nil
		}
	}
	return nil, false, nil
}

// TemplatesByCategory returns the built-in templates in category, matched case-insensitively.
// An empty category matches every template.
func TemplatesByCategory(category string) ([]*types.Template, error) {
	templates, err := BuiltinTemplates()
	if err != nil || category == "" {
		return templates, err
	}

	var matched []*types.Template
	for _, tmpl := range templates {
		if strings.EqualFold(tmpl.Category, category) {
			matched = append(matched, tmpl)
		}
	}
	return matched, nil
}

// TemplateCategories lists the distinct categories of the built-in templates, sorted
func TemplateCategories() ([]string, error) {
	templates, err := BuiltinTemplates()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, tmpl := range templates {
		if tmpl.Category == "" {
			continue
		}
		if _, ok := seen[tmpl.Category]; ok {
			continue
		}
		seen[tmpl.Category] = struct{}{}
		categories = append(categories, tmpl.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// ResolveTemplate loads ref as a file when one exists at that path, and otherwise
// looks it up as a built-in template ID. A ref with a file extension or a path
// separator is always treated as a path.
func ResolveTemplate(ctx context.Context, ref string) (*types.Template, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return LoadTemplate(ctx, ref)
	}
	if path.Ext(ref) != "" || strings.ContainsAny(ref, `/\`) {
		return LoadTemplate(ctx, ref)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.ContextError("resolve_template", err)
	}

	tmpl, ok, err := BuiltinTemplate(ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		templates, _ := BuiltinTemplates()
		ids := make([]string, 0, len(templates))
		for _, t := range templates {
			ids = append(ids, t.ID)
		}
		return nil, errors.ValidationError("resolve_template",
			fmt.Sprintf("no template file or built-in template named %q (built-in: %s)", ref, strings.Join(ids, ", ")))
	}
	return tmpl, nil
}
