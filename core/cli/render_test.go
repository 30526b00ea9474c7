package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/libstub/core/changespec"
	"github.com/emenda-labs/libstub/core/linker"
	"github.com/emenda-labs/libstub/core/stub"
)

func sampleResults() []linker.Result {
	iface := &stub.Interface{
		InstallName:              "/usr/lib/libFoo.dylib",
		Architecture:             "x86_64",
		Platform:                 stub.PlatformMacOS,
		CurrentVersion:           stub.NewVersion(1, 2, 3),
		CompatibilityVersion:     stub.NewVersion(1, 0, 0),
		ApplicationExtensionSafe: true,
		TwoLevelNamespace:        true,
		ReexportedLibraries:      []string{"/usr/lib/libBar.dylib"},
		Exports: []stub.Symbol{
			{Name: "_foo"},
			{Name: "_weak", WeakDefined: true},
		},
	}
	missing := stub.NewError(stub.KindMissingArchitecture, "missing required architecture arm64")
	return []linker.Result{
		{
			Name:      "libFoo.tbd",
			Supported: true,
			Resolutions: []linker.Resolution{
				{Arch: "x86_64", Interface: iface},
				{Arch: "arm64", Err: missing, Error: missing.Error()},
			},
		},
		{Name: "libBin.dylib", Supported: false},
	}
}

func TestWriteResults_Text(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteResults(&out, &errOut, sampleResults(), "text"))

	want := `---- libFoo.tbd
install-name: /usr/lib/libFoo.dylib
architecture: x86_64
platform: macosx
current-version: 1.2.3
compatibility-version: 1.0.0
swift-version: 0
application-extension-safe: true
two-level-namespace: true
reexported-libraries:
  /usr/lib/libBar.dylib
exports:
  _foo
  _weak (weak)

---- libBin.dylib
isSupported = false

`
	assert.Equal(t, want, out.String())
	assert.Equal(t, "Failed to parse: [missing-architecture] missing required architecture arm64\n", errOut.String())
}

func TestWriteResults_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteResults(&out, &bytes.Buffer{}, sampleResults(), "json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "libFoo.tbd", decoded[0]["name"])

	resolutions := decoded[0]["resolutions"].([]any)
	first := resolutions[0].(map[string]any)
	iface := first["interface"].(map[string]any)
	assert.Equal(t, "macosx", iface["platform"])
	assert.Equal(t, "1.2.3", iface["current_version"])
	second := resolutions[1].(map[string]any)
	assert.Contains(t, second["error"], "missing required architecture")
}

func TestWriteResults_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteResults(&out, &bytes.Buffer{}, sampleResults(), "yaml"))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, false, decoded[1]["supported"])
	assert.Contains(t, out.String(), "install-name: /usr/lib/libFoo.dylib")
}

func TestWriteChangeSpec(t *testing.T) {
	var out bytes.Buffer
	WriteChangeSpec(&out, changespec.ChangeSpec{
		Arch: "x86_64",
		Changes: []changespec.Change{
			{Kind: changespec.ChangeKindCompatibilityVersion, OldValue: "1.0.0", NewValue: "2.0.0", Direction: changespec.DirectionUpgrade},
			{Kind: changespec.ChangeKindRemoved, Symbol: "_gone"},
			{Kind: changespec.ChangeKindAdded, Symbol: "_new"},
			{Kind: changespec.ChangeKindWeakChanged, Symbol: "_w", OldValue: "strong", NewValue: "weak"},
		},
	})

	want := `arch: x86_64
! compatibility_version_changed: 1.0.0 -> 2.0.0 (upgrade)
! removed _gone
  added _new
  weak_changed _w: strong -> weak
4 change(s), 2 breaking
`
	assert.Equal(t, want, out.String())

	out.Reset()
	WriteChangeSpec(&out, changespec.ChangeSpec{Arch: "arm64"})
	assert.Equal(t, "arch: arm64\nno changes\n", out.String())
}
