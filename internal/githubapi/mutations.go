package githubapi

// createProjectMutation creates a Projects (v2) board owned by ownerId and linked to the repository
const createProjectMutation = `
	mutation CreateProject($ownerId: ID!, $title: String!, $repositoryId: ID) {
		createProjectV2(input: {
			ownerId: $ownerId
			title: $title
			repositoryId: $repositoryId
		}) {
			projectV2 {
				id
				number
				title
				url
			}
		}
	}
`

// createSingleSelectFieldMutation adds a single-select field with an initial option list
const createSingleSelectFieldMutation = `
	mutation CreateSingleSelectField($projectId: ID!, $name: String!, $options: [ProjectV2SingleSelectFieldOptionInput!]) {
		createProjectV2Field(input: {
			projectId: $projectId
			dataType: SINGLE_SELECT
			name: $name
			singleSelectOptions: $options
		}) {
			projectV2Field {
				... on ProjectV2SingleSelectField {
					id
					name
					options {
						id
						name
					}
				}
			}
		}
	}
`

// updateFieldOptionsMutation replaces the full option list of a single-select field
const updateFieldOptionsMutation = `
	mutation UpdateFieldOptions($fieldId: ID!, $options: [ProjectV2SingleSelectFieldOptionInput!]) {
		updateProjectV2Field(input: {
			fieldId: $fieldId
			singleSelectOptions: $options
		}) {
			projectV2Field {
				... on ProjectV2SingleSelectField {
					id
					name
					options {
						id
						name
					}
				}
			}
		}
	}
`

// addItemMutation adds an issue or pull request to a project
const addItemMutation = `
	mutation AddItem($projectId: ID!, $contentId: ID!) {
		addProjectV2ItemById(input: {
			projectId: $projectId
			contentId: $contentId
		}) {
			item {
				id
			}
		}
	}
`

// setSingleSelectValueMutation sets a single-select field value on a project item
const setSingleSelectValueMutation = `
	mutation SetSingleSelectValue($projectId: ID!, $itemId: ID!, $fieldId: ID!, $optionId: String!) {
		updateProjectV2ItemFieldValue(input: {
			projectId: $projectId
			itemId: $itemId
			fieldId: $fieldId
			value: { singleSelectOptionId: $optionId }
		}) {
			projectV2Item {
				id
			}
		}
	}
`

// projectFieldsQuery lists the single-select fields of a project with their options
const projectFieldsQuery = `
	query ProjectFields($projectId: ID!) {
		node(id: $projectId) {
			... on ProjectV2 {
				fields(first: 100) {
					nodes {
						... on ProjectV2SingleSelectField {
							id
							name
							options {
								id
								name
								color
								description
							}
						}
					}
				}
			}
		}
	}
`
