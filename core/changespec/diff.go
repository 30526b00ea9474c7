package changespec

import (
	"sort"

	"golang.org/x/mod/semver"

	"github.com/emenda-labs/libstub/core/stub"
)

// diffState holds the working state across the diff passes.
type diffState struct {
	oldByName  map[string]stub.Symbol
	newByName  map[string]stub.Symbol
	matchedOld map[string]bool
	matchedNew map[string]bool
	flipped    []string
	changes    []Change
}

// newDiffState indexes both export lists by name. Duplicate names collapse
// to their first occurrence.
func newDiffState(old, new *stub.Interface) *diffState {
	s := &diffState{
		oldByName:  make(map[string]stub.Symbol, len(old.Exports)),
		newByName:  make(map[string]stub.Symbol, len(new.Exports)),
		matchedOld: make(map[string]bool),
		matchedNew: make(map[string]bool),
	}
	for _, sym := range old.Exports {
		if _, ok := s.oldByName[sym.Name]; !ok {
			s.oldByName[sym.Name] = sym
		}
	}
	for _, sym := range new.Exports {
		if _, ok := s.newByName[sym.Name]; !ok {
			s.newByName[sym.Name] = sym
		}
	}
	return s
}

// Diff compares two resolved interfaces. Changes are reported in this order:
// header changes, removed exports, added exports, weak-defined flips. Symbol
// changes are sorted by name within each kind.
func Diff(old, new *stub.Interface) ChangeSpec {
	s := newDiffState(old, new)
	s.header(old, new)
	s.exactMatch()
	s.weakChanged()
	s.leftovers()
	s.emitWeakChanged()

	return ChangeSpec{
		Arch:    new.Architecture,
		Changes: s.changes,
	}
}

func (s *diffState) markMatched(name string) {
	s.matchedOld[name] = true
	s.matchedNew[name] = true
}

func (s *diffState) emit(c Change) {
	s.changes = append(s.changes, c)
}

func (s *diffState) unmatched(index map[string]stub.Symbol, matched map[string]bool) []string {
	var names []string
	for name := range index {
		if !matched[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// header reports install name and version changes.
func (s *diffState) header(old, new *stub.Interface) {
	if old.InstallName != new.InstallName {
		s.emit(Change{
			Kind:     ChangeKindInstallNameChanged,
			OldValue: old.InstallName,
			NewValue: new.InstallName,
		})
	}
	if old.CurrentVersion != new.CurrentVersion {
		s.emit(versionChange(ChangeKindCurrentVersion, old.CurrentVersion, new.CurrentVersion))
	}
	if old.CompatibilityVersion != new.CompatibilityVersion {
		s.emit(versionChange(ChangeKindCompatibilityVersion, old.CompatibilityVersion, new.CompatibilityVersion))
	}
}

// Pass 1: same name and same attributes are silently consumed.
func (s *diffState) exactMatch() {
	for name, oldSym := range s.oldByName {
		if newSym, ok := s.newByName[name]; ok && oldSym == newSym {
			s.markMatched(name)
		}
	}
}

// Pass 2: same name whose weak-defined attribute changed. The changes are
// emitted by emitWeakChanged after removals and additions.
func (s *diffState) weakChanged() {
	for _, name := range s.unmatched(s.oldByName, s.matchedOld) {
		if _, ok := s.newByName[name]; ok {
			s.flipped = append(s.flipped, name)
			s.markMatched(name)
		}
	}
}

func (s *diffState) emitWeakChanged() {
	for _, name := range s.flipped {
		s.emit(Change{
			Kind:     ChangeKindWeakChanged,
			Symbol:   name,
			OldValue: weakLabel(s.oldByName[name]),
			NewValue: weakLabel(s.newByName[name]),
		})
	}
}

// Pass 3: remaining old symbols were removed, remaining new ones added.
func (s *diffState) leftovers() {
	for _, name := range s.unmatched(s.oldByName, s.matchedOld) {
		s.emit(Change{Kind: ChangeKindRemoved, Symbol: name})
	}
	for _, name := range s.unmatched(s.newByName, s.matchedNew) {
		s.emit(Change{Kind: ChangeKindAdded, Symbol: name})
	}
}

func versionChange(kind ChangeKind, old, new stub.PackedVersion) Change {
	c := Change{Kind: kind, OldValue: old.String(), NewValue: new.String()}
	switch semver.Compare("v"+c.OldValue, "v"+c.NewValue) {
	case -1:
		c.Direction = DirectionUpgrade
	case 1:
		c.Direction = DirectionDowngrade
	}
	return c
}

func weakLabel(sym stub.Symbol) string {
	if sym.WeakDefined {
		return "weak"
	}
	return "strong"
}
