package document

import (
	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
)

// ExportGroup ties a set of architectures to the symbols a library exports
// for them.
type ExportGroup struct {
	Archs            []arch.Architecture
	Symbols          []string
	WeakSymbols      []string
	ObjCClasses      []string
	ObjCIvars        []string
	ReExports        []string
	AllowableClients []string
}

// UndefinedGroup ties a set of architectures to the symbols a library
// expects its clients to provide.
type UndefinedGroup struct {
	Archs          []arch.Architecture
	Symbols        []string
	WeakRefSymbols []string
	ObjCClasses    []string
	ObjCIvars      []string
}

// Document is the architecture-agnostic content of a stub file. It is
// produced once by Map and only read afterwards.
type Document struct {
	// Path is the source the document was read from; used in error messages.
	Path                     string
	InstallName              string
	Platform                 stub.Platform
	Archs                    []arch.Architecture
	CurrentVersion           stub.PackedVersion
	CompatibilityVersion     stub.PackedVersion
	SwiftVersion             uint32
	ApplicationExtensionSafe bool
	TwoLevelNamespace        bool
	ParentUmbrella           string
	Exports                  []ExportGroup
	Undefineds               []UndefinedGroup
}

// newDocument returns a Document holding every field default.
func newDocument(path string) Document {
	return Document{
		Path:                     path,
		CurrentVersion:           stub.DefaultVersion,
		CompatibilityVersion:     stub.DefaultVersion,
		ApplicationExtensionSafe: true,
		TwoLevelNamespace:        true,
	}
}
