package types

// ProjectV2 is a GitHub Project (v2) as returned by createProjectV2.
type ProjectV2 struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// FieldOption is one option of a single-select project field.
type FieldOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FieldOptionInput describes an option to create on a single-select field.
type FieldOptionInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// SingleSelectField is a single-select project field with its options in display order.
type SingleSelectField struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Options []FieldOption `json:"options"`
}

// OptionByName returns the option with the given name.
func (f *SingleSelectField) OptionByName(name string) (FieldOption, bool) {
	for _, opt := range f.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return FieldOption{}, false
}

// ProjectBoard is the provisioned board: the project, its status field, and one
// option per requested column in column order.
type ProjectBoard struct {
	ProjectID string
	Number    int
	URL       string
	FieldID   string
	FieldName string
	Columns   []FieldOption
}

// ColumnByName returns the option that realizes the named column.
func (b *ProjectBoard) ColumnByName(name string) (FieldOption, bool) {
	for _, opt := range b.Columns {
		if opt.Name == name {
			return opt, true
		}
	}
	return FieldOption{}, false
}
