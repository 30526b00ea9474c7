package linker

import (
	"github.com/emenda-labs/libstub/core/stub"
)

// StubReader is the interface each stub file format implements so that a
// linker can resolve against a library without its compiled binary.
type StubReader interface {
	// Probe reports whether data looks like a stub this reader understands.
	// It never fails and never parses beyond a cheap format check.
	Probe(path string, data []byte) bool

	// ShouldPreferTextForm reports whether the stub at path should be used
	// instead of a compiled library installed next to it.
	ShouldPreferTextForm(path string) bool

	// Resolve parses data and narrows it to one architecture. It returns
	// either a resolved interface or a *stub.Error, never both.
	// minOS gates $ld$hide$ directives; only its major and minor matter.
	Resolve(path string, data []byte, cpuType, cpuSubtype int32, mode stub.Matching, minOS stub.PackedVersion) (*stub.Interface, error)

	// AreEquivalent reports whether the stub at stubPath describes the
	// binary at binaryPath.
	AreEquivalent(stubPath, binaryPath string) bool
}
