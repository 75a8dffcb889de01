package part

// Part is a named subdivision of a project, such as one piece of a garment.
// It owns its counters.
type Part struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	OwningProjectID int64  `json:"owning_project_id"`
	IsCurrent       bool   `json:"is_current"`
}

// FirstPartName is the name given to the part created with a fresh project.
const FirstPartName = "Part 1"

// Current returns the current part in parts, or false when none is marked.
func Current(parts []Part) (Part, bool) {
	for _, p := range parts {
		if p.IsCurrent {
			return p, true
		}
	}
	return Part{}, false
}
