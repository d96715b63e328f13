package githubapi

import (
	"strings"
	"testing"
)

// TestGraphQLMutationSyntax tests that all GraphQL mutations have valid syntax
func TestGraphQLMutationSyntax(t *testing.T) {
	mutations := []struct {
		name     string
		mutation string
		field    string
	}{
		{name: "createProjectMutation", mutation: createProjectMutation, field: "createProjectV2"},
		{name: "createSingleSelectFieldMutation", mutation: createSingleSelectFieldMutation, field: "createProjectV2Field"},
		{name: "updateFieldOptionsMutation", mutation: updateFieldOptionsMutation, field: "updateProjectV2Field"},
		{name: "addItemMutation", mutation: addItemMutation, field: "addProjectV2ItemById"},
		{name: "setSingleSelectValueMutation", mutation: setSingleSelectValueMutation, field: "updateProjectV2ItemFieldValue"},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mutation == "" {
				t.Error("Mutation should not be empty")
				return
			}

			if !strings.Contains(tt.mutation, "mutation") {
				t.Error("Mutation should contain 'mutation' keyword")
			}

			if !strings.Contains(tt.mutation, tt.field+"(input:") {
				t.Errorf("Mutation should call %s with an input object", tt.field)
			}

			openBraces := strings.Count(tt.mutation, "{")
			closeBraces := strings.Count(tt.mutation, "}")
			if openBraces != closeBraces {
				t.Errorf("Unmatched braces in mutation: %d open, %d close", openBraces, closeBraces)
			}

			openParens := strings.Count(tt.mutation, "(")
			closeParens := strings.Count(tt.mutation, ")")
			if openParens != closeParens {
				t.Errorf("Unmatched parentheses in mutation: %d open, %d close", openParens, closeParens)
			}

			if !strings.Contains(tt.mutation, "$") {
				t.Error("Mutation parameters should use $ variable syntax")
			}
		})
	}
}

// TestGraphQLQuerySyntax tests the raw query used for project fields
func TestGraphQLQuerySyntax(t *testing.T) {
	if !strings.HasPrefix(strings.TrimSpace(projectFieldsQuery), "query ") {
		t.Error("Query should start with 'query' keyword")
	}
	if strings.Count(projectFieldsQuery, "{") != strings.Count(projectFieldsQuery, "}") {
		t.Error("Unmatched braces in projectFieldsQuery")
	}
	for _, want := range []string{"$projectId: ID!", "... on ProjectV2SingleSelectField", "options"} {
		if !strings.Contains(projectFieldsQuery, want) {
			t.Errorf("projectFieldsQuery should contain %q", want)
		}
	}
}
