package githubapi

// repositoryIDsQuery resolves the node IDs of a repository and its owner
type repositoryIDsQuery struct {
	Repository struct {
		ID    string
		Owner struct {
			ID    string
			Login string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// issueNodeIDQuery resolves the node ID of an issue from its number
type issueNodeIDQuery struct {
	Repository struct {
		Issue struct {
			ID string
		} `graphql:"issue(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type fieldOptionNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type singleSelectFieldNode struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Options []fieldOptionNode `json:"options"`
}

type projectFieldsResponse struct {
	Node struct {
		Fields struct {
			// Fields of other types decode as empty objects
			Nodes []singleSelectFieldNode `json:"nodes"`
		} `json:"fields"`
	} `json:"node"`
}

type createProjectResponse struct {
	CreateProjectV2 struct {
		ProjectV2 struct {
			ID     string `json:"id"`
			Number int    `json:"number"`
			Title  string `json:"title"`
			URL    string `json:"url"`
		} `json:"projectV2"`
	} `json:"createProjectV2"`
}

type createFieldResponse struct {
	CreateProjectV2Field struct {
		ProjectV2Field singleSelectFieldNode `json:"projectV2Field"`
	} `json:"createProjectV2Field"`
}

type updateFieldResponse struct {
	UpdateProjectV2Field struct {
		ProjectV2Field singleSelectFieldNode `json:"projectV2Field"`
	} `json:"updateProjectV2Field"`
}

type addItemResponse struct {
	AddProjectV2ItemByID struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	} `json:"addProjectV2ItemById"`
}

type setFieldValueResponse struct {
	UpdateProjectV2ItemFieldValue struct {
		ProjectV2Item struct {
			ID string `json:"id"`
		} `json:"projectV2Item"`
	} `json:"updateProjectV2ItemFieldValue"`
}
