package counter

// CounterType distinguishes the per-part Global and Stitch counters from
// user counters.
type CounterType string

const (
	TypeNormal CounterType = "normal"
	TypeGlobal CounterType = "global"
	TypeStitch CounterType = "stitch"
)

// Default names for the counters created with every part.
const (
	GlobalName = "Global"
	StitchName = "Stitch"
)

// Counter is a named tally owned by a part.
type Counter struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Value            int64       `json:"value"`
	IncrementBy      int64       `json:"increment_by"`
	Type             CounterType `json:"type"`
	IsGloballyLinked bool        `json:"is_globally_linked"`
	ResetRow         int64       `json:"reset_row"`
	MaxResets        int64       `json:"max_resets"`
	NumResets        int64       `json:"num_resets"`
	OwningPartID     int64       `json:"owning_part_id"`
	Version          int64       `json:"version"`
}

// WithDefaults fills zero-valued optional fields. Global and Stitch counters
// never carry the link flag.
func (c Counter) WithDefaults() Counter {
	if c.Type == "" {
		c.Type = TypeNormal
	}
	if c.IncrementBy == 0 {
		c.IncrementBy = 1
	}
	if c.Type != TypeNormal {
		c.IsGloballyLinked = false
	}
	return c
}

// UserDeletable reports whether the counter may be removed on its own.
// Global and Stitch counters live and die with their part.
func (c Counter) UserDeletable() bool {
	return c.Type == TypeNormal
}

// FollowsGlobal reports whether changes to the part's Global counter are
// applied to this counter as well.
func (c Counter) FollowsGlobal() bool {
	return c.Type == TypeNormal && c.IsGloballyLinked
}

// SameState reports whether every user-editable field of c equals other.
// ID, owner, type and version are identity, not state.
func (c Counter) SameState(other Counter) bool {
	return c.Name == other.Name &&
		c.Value == other.Value &&
		c.IncrementBy == other.IncrementBy &&
		c.IsGloballyLinked == other.IsGloballyLinked &&
		c.ResetRow == other.ResetRow &&
		c.MaxResets == other.MaxResets &&
		c.NumResets == other.NumResets
}

// IndexOf returns the position of the counter with the given id, or -1.
func IndexOf(counters []Counter, id int64) int {
	for i := range counters {
		if counters[i].ID == id {
			return i
		}
	}
	return -1
}
