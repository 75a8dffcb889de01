package project

// CraftType is the craft a project is worked in.
type CraftType string

const (
	CraftKnitting CraftType = "knitting"
	CraftCrochet  CraftType = "crochet"
)

// Project is a top-level craft project. It owns its parts.
type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Completed     bool      `json:"completed"`
	Type          CraftType `json:"type"`
	RowsCompleted int64     `json:"rows_completed"`
}

// New returns a project with the default craft type.
func New(name string) Project {
	return Project{Name: name, Type: CraftKnitting}
}

// WithDefaults fills zero-valued optional fields.
func (p Project) WithDefaults() Project {
	if p.Type == "" {
		p.Type = CraftKnitting
	}
	return p
}
