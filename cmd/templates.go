package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisreddington/gh-boardkit/internal/config"
)

type templateView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Labels      int    `json:"labels"`
	Issues      int    `json:"issues"`
}

// NewTemplatesCmd creates the templates command, which lists the built-in templates.
func NewTemplatesCmd() *cobra.Command {
	var category string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates usable with generate --template",
		Example: `  gh boardkit templates
  gh boardkit templates --category product
  gh boardkit generate octo-org/demo --template web-app --board kanban`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := config.TemplatesByCategory(category)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				categories, err := config.TemplateCategories()
				if err != nil {
					return err
				}
				return fmt.Errorf("no built-in templates in category %q (categories: %v)", category, categories)
			}

			views := make([]templateView, 0, len(templates))
			for _, tmpl := range templates {
				views = append(views, templateView{
					ID:          tmpl.ID,
					Name:        tmpl.Name,
					Category:    tmpl.Category,
					Description: tmpl.Description,
					Labels:      len(tmpl.Labels),
					Issues:      tmpl.IssueCount(),
				})
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			for _, v := range views {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-22s [%s] %d labels, %d issues\n", v.ID, v.Name, v.Category, v.Labels, v.Issues)
				if v.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "             %s\n", v.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list templates in this category")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the templates as JSON")
	return cmd
}
