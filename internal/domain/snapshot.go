package domain

// DataVersion is the dataset format version written to bundles
const DataVersion = "1.0.0"

// Snapshot is a consistent, read-only view of the four entity collections.
// Revision increases every time the dataset is reloaded so that derived
// state (resolved chains, graphs) can be keyed on it.
type Snapshot struct {
	Version   string     `json:"version" yaml:"version"`
	Revision  uint64     `json:"revision" yaml:"-"`
	Units     []Unit     `json:"units" yaml:"units"`
	Items     []Item     `json:"items" yaml:"items"`
	Buildings []Building `json:"buildings" yaml:"buildings"`
	Recipes   []Recipe   `json:"recipes" yaml:"recipes"`
}

// NewSnapshot creates an empty snapshot with initialized collections
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:   DataVersion,
		Units:     make([]Unit, 0),
		Items:     make([]Item, 0),
		Buildings: make([]Building, 0),
		Recipes:   make([]Recipe, 0),
	}
}

// Counts returns the size of each collection keyed by entity name
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"units":     len(s.Units),
		"items":     len(s.Items),
		"buildings": len(s.Buildings),
		"recipes":   len(s.Recipes),
	}
}
