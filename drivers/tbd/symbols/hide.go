package symbols

import (
	"strings"

	"github.com/emenda-labs/libstub/core/stub"
)

const (
	// HidePrefix marks a symbol as a linker directive; such symbols are
	// never exported themselves.
	HidePrefix   = "$ld$hide$"
	hideOSPrefix = HidePrefix + "os"
)

// HideDirective asks the linker to hide Name when the deployment target is
// at least Version.
type HideDirective struct {
	Version stub.PackedVersion
	Name    string
}

// ParseHideDirective decodes a symbol of the form $ld$hide$os<version>$<name>.
// The version is read with stub.ParseVersion. ok is false when name does not
// have that shape or the hidden name is empty.
func ParseHideDirective(name string) (HideDirective, bool) {
	rest, found := strings.CutPrefix(name, hideOSPrefix)
	if !found {
		return HideDirective{}, false
	}
	version, target, found := strings.Cut(rest, "$")
	if !found || target == "" {
		return HideDirective{}, false
	}
	return HideDirective{Version: stub.ParseVersion(version), Name: target}, true
}

// IsDirective reports whether name is a $ld$hide$ directive symbol.
func IsDirective(name string) bool {
	return strings.HasPrefix(name, HidePrefix)
}

// Suppress removes directive symbols and the symbols they hide for minOS.
// Only the major and minor components of minOS take part; its patch is
// treated as zero. A directive applies when its version is not newer than
// that minimum. The remaining symbols keep their relative order.
func Suppress(syms []stub.Symbol, minOS stub.PackedVersion) []stub.Symbol {
	minOS = minOS.WithPatch(0)

	hidden := make(map[string]struct{})
	for _, sym := range syms {
		d, ok := ParseHideDirective(sym.Name)
		if ok && d.Version <= minOS {
			hidden[d.Name] = struct{}{}
		}
	}

	out := make([]stub.Symbol, 0, len(syms))
	for _, sym := range syms {
		if IsDirective(sym.Name) {
			continue
		}
		if _, ok := hidden[sym.Name]; ok {
			continue
		}
		out = append(out, sym)
	}
	return out
}
