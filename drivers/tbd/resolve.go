package tbd

import (
	"slices"

	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
	"github.com/emenda-labs/libstub/drivers/tbd/document"
	"github.com/emenda-labs/libstub/drivers/tbd/symbols"
)

// Resolve narrows doc to the architecture identified by cpuType and
// cpuSubtype. Export groups declaring the selected architecture are expanded
// in document order and $ld$hide$ directives are applied for minOS.
// doc is not modified; the returned Interface shares no memory with it.
func Resolve(doc document.Document, cpuType, cpuSubtype int32, mode stub.Matching, minOS stub.PackedVersion) (*stub.Interface, error) {
	requested := arch.ByCPU(cpuType, cpuSubtype)
	if requested == arch.None {
		e := stub.Errorf(stub.KindUnrecognizedArchitecture,
			"unrecognized architecture for cpu type %#x subtype %d", uint32(cpuType), cpuSubtype)
		e.Path = doc.Path
		return nil, e
	}

	selected, ok := arch.Select(requested, mode == stub.MatchExact, doc.Archs)
	if !ok {
		e := stub.Errorf(stub.KindMissingArchitecture, "missing required architecture %s", requested)
		e.Path = doc.Path
		e.Arch = requested.String()
		return nil, e
	}

	var exports []stub.Symbol
	var reexports, clients []string
	for _, g := range doc.Exports {
		if !slices.Contains(g.Archs, selected) {
			continue
		}
		exports = append(exports, symbols.Expand(g)...)
		reexports = append(reexports, g.ReExports...)
		clients = append(clients, g.AllowableClients...)
	}

	var undefineds []stub.Symbol
	for _, g := range doc.Undefineds {
		if slices.Contains(g.Archs, selected) {
			undefineds = append(undefineds, symbols.ExpandUndefined(g)...)
		}
	}

	return &stub.Interface{
		InstallName:              doc.InstallName,
		Architecture:             selected.String(),
		Platform:                 doc.Platform,
		CurrentVersion:           doc.CurrentVersion,
		CompatibilityVersion:     doc.CompatibilityVersion,
		SwiftVersion:             doc.SwiftVersion,
		ApplicationExtensionSafe: doc.ApplicationExtensionSafe,
		TwoLevelNamespace:        doc.TwoLevelNamespace,
		ParentFramework:          doc.ParentUmbrella,
		ReexportedLibraries:      reexports,
		AllowableClients:         clients,
		Exports:                  symbols.Suppress(exports, minOS),
		Undefineds:               undefineds,
	}, nil
}
