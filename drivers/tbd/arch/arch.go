// Package arch is the catalog of architectures a stub document may declare
// and the rules for matching a requested CPU against them.
package arch

import "slices"

// Architecture identifies one (cpu type, cpu subtype) pair. The zero value
// None is the "not found" result of every lookup.
type Architecture uint8

const (
	None Architecture = iota
	X86_64
	X86_64H
	I386
	ARMv7
	ARMv7s
	ARMv7k
	ARM64
	ARM64e
)

// CPU type and subtype values from <mach/machine.h>.
const (
	cpuArchABI64 = 0x01000000

	CPUTypeI386   int32 = 7
	CPUTypeX86_64 int32 = CPUTypeI386 | cpuArchABI64
	CPUTypeARM    int32 = 12
	CPUTypeARM64  int32 = CPUTypeARM | cpuArchABI64

	CPUSubtypeI386All   int32 = 3
	CPUSubtypeX86_64All int32 = CPUSubtypeI386All
	CPUSubtypeX86_64H   int32 = 8
	CPUSubtypeARMv7     int32 = 9
	CPUSubtypeARMv7s    int32 = 11
	CPUSubtypeARMv7k    int32 = 12
	CPUSubtypeARM64All  int32 = 0
	CPUSubtypeARM64e    int32 = 2
)

type info struct {
	name       string
	cpuType    int32
	cpuSubtype int32
}

// Indexed by Architecture.
var catalog = [...]info{
	None:    {"none", 0, 0},
	X86_64:  {"x86_64", CPUTypeX86_64, CPUSubtypeX86_64All},
	X86_64H: {"x86_64h", CPUTypeX86_64, CPUSubtypeX86_64H},
	I386:    {"i386", CPUTypeI386, CPUSubtypeI386All},
	ARMv7:   {"armv7", CPUTypeARM, CPUSubtypeARMv7},
	ARMv7s:  {"armv7s", CPUTypeARM, CPUSubtypeARMv7s},
	ARMv7k:  {"armv7k", CPUTypeARM, CPUSubtypeARMv7k},
	ARM64:   {"arm64", CPUTypeARM64, CPUSubtypeARM64All},
	ARM64e:  {"arm64e", CPUTypeARM64, CPUSubtypeARM64e},
}

func (a Architecture) info() info {
	if int(a) >= len(catalog) {
		return catalog[None]
	}
	return catalog[a]
}

func (a Architecture) String() string { return a.info().name }

func (a Architecture) CPUType() int32 { return a.info().cpuType }

func (a Architecture) CPUSubtype() int32 { return a.info().cpuSubtype }

// All returns every architecture in the catalog except None, in catalog order.
func All() []Architecture {
	out := make([]Architecture, 0, len(catalog)-1)
	for i := 1; i < len(catalog); i++ {
		out = append(out, Architecture(i))
	}
	return out
}

// ByCPU returns the architecture for an exact (cpu type, cpu subtype) pair.
func ByCPU(cpuType, cpuSubtype int32) Architecture {
	for i := 1; i < len(catalog); i++ {
		if catalog[i].cpuType == cpuType && catalog[i].cpuSubtype == cpuSubtype {
			return Architecture(i)
		}
	}
	return None
}

// ByName returns the architecture with the given document spelling.
func ByName(name string) Architecture {
	for i := 1; i < len(catalog); i++ {
		if catalog[i].name == name {
			return Architecture(i)
		}
	}
	return None
}

// Select picks the declared architecture that satisfies requested.
// A literal match always wins. Unless exact is set, the first declared
// architecture with the same CPU type is accepted next, regardless of subtype.
func Select(requested Architecture, exact bool, declared []Architecture) (Architecture, bool) {
	if requested == None {
		return None, false
	}
	if slices.Contains(declared, requested) {
		return requested, true
	}
	if exact {
		return None, false
	}
	for _, a := range declared {
		if a != None && a.CPUType() == requested.CPUType() {
			return a, true
		}
	}
	return None, false
}
