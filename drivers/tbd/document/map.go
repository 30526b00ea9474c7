// Package document maps a generic YAML node tree onto the typed content of a
// text-based library stub.
//
// Mapping keeps two outcome channels apart. Structural violations (a root
// that is not a mapping, a non-scalar mapping key, an unsupported
// objc-constraint) are returned as *stub.Error. Everything else is read best
// effort: a field with the wrong shape keeps its default and unknown keys,
// platforms, flags and architecture names are dropped without an error.
package document

import (
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
)

// Top-level document keys.
const (
	keyPlatform             = "platform"
	keyInstallName          = "install-name"
	keyArchs                = "archs"
	keyCurrentVersion       = "current-version"
	keyCompatibilityVersion = "compatibility-version"
	keySwiftVersion         = "swift-version"
	keyObjCConstraint       = "objc-constraint"
	keyFlags                = "flags"
	keyExports              = "exports"
	keyUndefineds           = "undefineds"
	keyParentUmbrella       = "parent-umbrella"
)

// Export and undefined group keys.
const (
	keySymbols          = "symbols"
	keyWeakDefSymbols   = "weak-def-symbols"
	keyWeakRefSymbols   = "weak-ref-symbols"
	keyObjCClasses      = "objc-classes"
	keyObjCIvars        = "objc-ivars"
	keyReExports        = "re-exports"
	keyAllowableClients = "allowable-clients"
)

// Values of the flags sequence.
const (
	flagNotAppExtensionSafe = "not_app_extension_safe"
	flagFlatNamespace       = "flat_namespace"
)

// Map converts the parsed tree of one stub document into a Document.
// root may be the DocumentNode returned by yaml.Unmarshal or the root
// content node itself. path is recorded in the Document and in errors.
func Map(root *yaml.Node, path string) (Document, error) {
	node := follow(root)
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			node = nil
		} else {
			node = follow(node.Content[0])
		}
	}
	if node == nil {
		return Document{}, malformed(path, "document has no content")
	}
	if node.Kind != yaml.MappingNode {
		return Document{}, malformed(path, "document root is a %s, expected a mapping", kindName(node))
	}

	doc := newDocument(path)
	err := eachEntry(node, path, func(key string, value *yaml.Node) error {
		switch key {
		case keyPlatform:
			doc.Platform = stub.ParsePlatform(scalarValue(value))
		case keyInstallName:
			doc.InstallName = scalarValue(value)
		case keyArchs:
			doc.Archs = archList(value)
		case keyCurrentVersion:
			doc.CurrentVersion = versionValue(value)
		case keyCompatibilityVersion:
			doc.CompatibilityVersion = versionValue(value)
		case keySwiftVersion:
			doc.SwiftVersion = stub.ParseUint(scalarValue(value))
		case keyObjCConstraint:
			return checkConstraint(value, path)
		case keyFlags:
			applyFlags(&doc, value)
		case keyParentUmbrella:
			doc.ParentUmbrella = scalarValue(value)
		case keyExports:
			groups, err := collectExports(value, path)
			if err != nil {
				return err
			}
			doc.Exports = groups
		case keyUndefineds:
			groups, err := collectUndefineds(value, path)
			if err != nil {
				return err
			}
			doc.Undefineds = groups
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}

	return doc, nil
}

// collectExports reads the exports sequence. Entries that are not mappings
// are skipped.
func collectExports(node *yaml.Node, path string) ([]ExportGroup, error) {
	var groups []ExportGroup
	for _, item := range sequenceItems(node) {
		if item.Kind != yaml.MappingNode {
			continue
		}

		var g ExportGroup
		err := eachEntry(item, path, func(key string, value *yaml.Node) error {
			switch key {
			case keyArchs:
				g.Archs = archList(value)
			case keySymbols:
				g.Symbols = scalarList(value)
			case keyWeakDefSymbols:
				g.WeakSymbols = scalarList(value)
			case keyObjCClasses:
				g.ObjCClasses = scalarList(value)
			case keyObjCIvars:
				g.ObjCIvars = scalarList(value)
			case keyReExports:
				g.ReExports = scalarList(value)
			case keyAllowableClients:
				g.AllowableClients = scalarList(value)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// collectUndefineds reads the undefineds sequence the same way as exports.
func collectUndefineds(node *yaml.Node, path string) ([]UndefinedGroup, error) {
	var groups []UndefinedGroup
	for _, item := range sequenceItems(node) {
		if item.Kind != yaml.MappingNode {
			continue
		}

		var g UndefinedGroup
		err := eachEntry(item, path, func(key string, value *yaml.Node) error {
			switch key {
			case keyArchs:
				g.Archs = archList(value)
			case keySymbols:
				g.Symbols = scalarList(value)
			case keyWeakRefSymbols:
				g.WeakRefSymbols = scalarList(value)
			case keyObjCClasses:
				g.ObjCClasses = scalarList(value)
			case keyObjCIvars:
				g.ObjCIvars = scalarList(value)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// eachEntry calls fn for every key/value pair of a mapping node. A key that
// is not a scalar aborts the walk with a malformed-document error.
func eachEntry(mapping *yaml.Node, path string, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := follow(mapping.Content[i])
		if key == nil || key.Kind != yaml.ScalarNode {
			line := mapping.Content[i].Line
			return malformed(path, "mapping key at line %d is a %s, expected a scalar", line, kindName(key))
		}
		if err := fn(key.Value, follow(mapping.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func checkConstraint(node *yaml.Node, path string) error {
	if node == nil || node.Kind != yaml.ScalarNode {
		e := stub.Errorf(stub.KindUnsupportedConstraint, "objc-constraint is a %s, expected a scalar", kindName(node))
		e.Path = path
		return e
	}
	if node.Value != string(stub.ObjCConstraintNone) {
		e := stub.Errorf(stub.KindUnsupportedConstraint, "objc-constraint %q is not supported", node.Value)
		e.Path = path
		return e
	}
	return nil
}

func applyFlags(doc *Document, node *yaml.Node) {
	for _, flag := range scalarList(node) {
		switch flag {
		case flagNotAppExtensionSafe:
			doc.ApplicationExtensionSafe = false
		case flagFlatNamespace:
			doc.TwoLevelNamespace = false
		}
	}
}

// versionValue parses a version scalar, keeping the default when the node
// is absent or not a scalar.
func versionValue(node *yaml.Node) stub.PackedVersion {
	if !isScalar(node) {
		return stub.DefaultVersion
	}
	return stub.ParseVersion(node.Value)
}

// archList reads a sequence of architecture names, dropping unknown names.
func archList(node *yaml.Node) []arch.Architecture {
	var out []arch.Architecture
	for _, name := range scalarList(node) {
		if a := arch.ByName(name); a != arch.None {
			out = append(out, a)
		}
	}
	return out
}

// scalarList returns the scalar items of a sequence node. Non-scalar and
// null items are skipped; a non-sequence node yields nil.
func scalarList(node *yaml.Node) []string {
	var out []string
	for _, item := range sequenceItems(node) {
		if isScalar(item) {
			out = append(out, item.Value)
		}
	}
	return out
}

func scalarValue(node *yaml.Node) string {
	if !isScalar(node) {
		return ""
	}
	return node.Value
}

func sequenceItems(node *yaml.Node) []*yaml.Node {
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, 0, len(node.Content))
	for _, item := range node.Content {
		if item = follow(item); item != nil {
			items = append(items, item)
		}
	}
	return items
}

func isScalar(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.ShortTag() != "!!null"
}

// follow resolves alias nodes to the node they reference.
func follow(node *yaml.Node) *yaml.Node {
	for depth := 0; node != nil && node.Kind == yaml.AliasNode; depth++ {
		if depth > 32 {
			return nil
		}
		node = node.Alias
	}
	return node
}

func kindName(node *yaml.Node) string {
	if node == nil {
		return "null"
	}
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "null"
	}
}

func malformed(path, format string, args ...any) *stub.Error {
	e := stub.Errorf(stub.KindMalformedDocument, format, args...)
	e.Path = path
	return e
}
