// Package symbols turns the declarative lists of a stub document into
// literal linker symbol names and applies $ld$hide$ directives to them.
package symbols

import (
	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/document"
)

// Objective-C symbol name prefixes.
const (
	ObjCClassPrefix     = "_OBJC_CLASS_$_"
	ObjCMetaclassPrefix = "_OBJC_METACLASS_$_"
	ObjCIvarPrefix      = "_OBJC_IVAR_$_"
)

// Expand returns the symbols an export group contributes, in this order:
// plain symbols, weak-defined symbols, one class/metaclass pair per class,
// then ivars.
func Expand(g document.ExportGroup) []stub.Symbol {
	out := make([]stub.Symbol, 0, len(g.Symbols)+len(g.WeakSymbols)+2*len(g.ObjCClasses)+len(g.ObjCIvars))
	return expandInto(out, g.Symbols, g.WeakSymbols, g.ObjCClasses, g.ObjCIvars)
}

// ExpandUndefined applies the same rules to an undefined group; weak-ref
// symbols take the place of weak-defined ones.
func ExpandUndefined(g document.UndefinedGroup) []stub.Symbol {
	out := make([]stub.Symbol, 0, len(g.Symbols)+len(g.WeakRefSymbols)+2*len(g.ObjCClasses)+len(g.ObjCIvars))
	return expandInto(out, g.Symbols, g.WeakRefSymbols, g.ObjCClasses, g.ObjCIvars)
}

func expandInto(out []stub.Symbol, plain, weak, classes, ivars []string) []stub.Symbol {
	for _, name := range plain {
		out = append(out, stub.Symbol{Name: name})
	}
	for _, name := range weak {
		out = append(out, stub.Symbol{Name: name, WeakDefined: true})
	}
	for _, class := range classes {
		out = append(out,
			stub.Symbol{Name: ObjCClassPrefix + class},
			stub.Symbol{Name: ObjCMetaclassPrefix + class},
		)
	}
	for _, ivar := range ivars {
		out = append(out, stub.Symbol{Name: ObjCIvarPrefix + ivar})
	}
	return out
}
