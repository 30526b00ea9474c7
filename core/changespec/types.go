package changespec

// ChangeKind represents the type of interface change between two stubs.
type ChangeKind string

const (
	ChangeKindInstallNameChanged   ChangeKind = "install_name_changed"
	ChangeKindCurrentVersion       ChangeKind = "current_version_changed"
	ChangeKindCompatibilityVersion ChangeKind = "compatibility_version_changed"
	ChangeKindRemoved              ChangeKind = "removed"
	ChangeKindAdded                ChangeKind = "added"
	ChangeKindWeakChanged          ChangeKind = "weak_changed"
)

// Direction classifies a version change.
type Direction string

const (
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
)

// Change represents a single difference between two resolved interfaces.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	Symbol    string     `json:"symbol,omitempty"`
	OldValue  string     `json:"old_value,omitempty"`
	NewValue  string     `json:"new_value,omitempty"`
	Direction Direction  `json:"direction,omitempty"`
}

// Breaking reports whether clients linked against the old interface may
// fail to link or load against the new one.
func (c Change) Breaking() bool {
	switch c.Kind {
	case ChangeKindRemoved, ChangeKindInstallNameChanged:
		return true
	case ChangeKindCompatibilityVersion:
		return c.Direction == DirectionUpgrade
	default:
		return false
	}
}

// ChangeSpec is the full set of changes between two resolved interfaces of
// the same architecture.
type ChangeSpec struct {
	Arch    string   `json:"arch"`
	OldPath string   `json:"old_path,omitempty"`
	NewPath string   `json:"new_path,omitempty"`
	Changes []Change `json:"changes"`
}

// Breaking returns the subset of changes that are breaking.
func (s ChangeSpec) Breaking() []Change {
	var out []Change
	for _, c := range s.Changes {
		if c.Breaking() {
			out = append(out, c)
		}
	}
	return out
}
