package stub

// Platform identifies the operating system family a stub document targets.
type Platform uint8

const (
	PlatformUnknown  Platform = 0
	PlatformMacOS    Platform = 1
	PlatformIOS      Platform = 2
	PlatformWatchOS  Platform = 3
	PlatformTvOS     Platform = 4
	PlatformBridgeOS Platform = 5
)

// MarshalText renders the platform as its document spelling.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macosx"
	case PlatformIOS:
		return "ios"
	case PlatformWatchOS:
		return "watchos"
	case PlatformTvOS:
		return "tvos"
	case PlatformBridgeOS:
		return "bridgeos"
	default:
		return "unknown"
	}
}

// ParsePlatform maps a document platform string to a Platform.
// Unrecognized strings map to PlatformUnknown.
func ParsePlatform(s string) Platform {
	switch s {
	case "macosx":
		return PlatformMacOS
	case "ios":
		return PlatformIOS
	case "watchos":
		return PlatformWatchOS
	case "tvos":
		return PlatformTvOS
	case "bridgeos":
		return PlatformBridgeOS
	default:
		return PlatformUnknown
	}
}

// Matching selects how strictly a requested CPU subtype must match the
// architectures a document declares.
type Matching uint8

const (
	// MatchABICompatible accepts any declared architecture sharing the
	// requested CPU type when no literal match exists.
	MatchABICompatible Matching = 0
	// MatchExact requires the requested architecture to be declared literally.
	MatchExact Matching = 1
)

func (m Matching) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "abi-compatible"
}

// ObjCConstraint is the Objective-C runtime constraint of a library. Only
// ObjCConstraintNone is accepted by the mapper.
type ObjCConstraint string

const ObjCConstraintNone ObjCConstraint = "none"

// Symbol is a single exported (or undefined) linker symbol.
type Symbol struct {
	Name        string `json:"name" yaml:"name"`
	WeakDefined bool   `json:"weak_defined,omitempty" yaml:"weak-defined,omitempty"`
	ThreadLocal bool   `json:"thread_local,omitempty" yaml:"thread-local,omitempty"`
}

// Interface is the linking-relevant view of a library for one architecture.
// It owns all of its data; nothing aliases the document it was resolved from.
type Interface struct {
	InstallName              string        `json:"install_name" yaml:"install-name"`
	Architecture             string        `json:"arch" yaml:"arch"`
	Platform                 Platform      `json:"platform" yaml:"platform"`
	CurrentVersion           PackedVersion `json:"current_version" yaml:"current-version"`
	CompatibilityVersion     PackedVersion `json:"compatibility_version" yaml:"compatibility-version"`
	SwiftVersion             uint32        `json:"swift_version" yaml:"swift-version"`
	ApplicationExtensionSafe bool          `json:"application_extension_safe" yaml:"application-extension-safe"`
	TwoLevelNamespace        bool          `json:"two_level_namespace" yaml:"two-level-namespace"`
	ParentFramework          string        `json:"parent_framework,omitempty" yaml:"parent-framework,omitempty"`
	ReexportedLibraries      []string      `json:"reexports,omitempty" yaml:"reexports,omitempty"`
	AllowableClients         []string      `json:"allowable_clients,omitempty" yaml:"allowable-clients,omitempty"`
	Exports                  []Symbol      `json:"exports" yaml:"exports"`
	Undefineds               []Symbol      `json:"undefineds,omitempty" yaml:"undefineds,omitempty"`
}

// GetInstallName returns the path the library identifies itself by.
func (i *Interface) GetInstallName() string { return i.InstallName }

// GetPlatform returns the platform the document declared.
func (i *Interface) GetPlatform() Platform { return i.Platform }

func (i *Interface) GetCurrentVersion() PackedVersion { return i.CurrentVersion }

func (i *Interface) GetCompatibilityVersion() PackedVersion { return i.CompatibilityVersion }

func (i *Interface) GetSwiftVersion() uint32 { return i.SwiftVersion }

func (i *Interface) IsApplicationExtensionSafe() bool { return i.ApplicationExtensionSafe }

func (i *Interface) HasTwoLevelNamespace() bool { return i.TwoLevelNamespace }

// GetObjCConstraint always reports ObjCConstraintNone; other constraints are
// rejected while mapping.
func (i *Interface) GetObjCConstraint() ObjCConstraint { return ObjCConstraintNone }

// IsInstallNameVersionSpecific is always false for text stubs.
func (i *Interface) IsInstallNameVersionSpecific() bool { return false }

func (i *Interface) GetParentFrameworkName() string { return i.ParentFramework }

func (i *Interface) HasReexportedLibraries() bool { return len(i.ReexportedLibraries) > 0 }

func (i *Interface) HasAllowableClients() bool { return len(i.AllowableClients) > 0 }

// GetExports returns the final ordered export list.
func (i *Interface) GetExports() []Symbol { return i.Exports }

func (i *Interface) GetUndefineds() []Symbol { return i.Undefineds }

// HasWeakDefinedExports reports whether any export is weak-defined.
func (i *Interface) HasWeakDefinedExports() bool {
	for _, sym := range i.Exports {
		if sym.WeakDefined {
			return true
		}
	}
	return false
}
