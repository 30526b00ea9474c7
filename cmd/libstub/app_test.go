package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/libstub/core/cli"
)

func testdataDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "drivers", "tbd", "testdata")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	globals := &cli.GlobalOptions{}
	a := newApp(globals, &stdout, &stderr)

	root := cli.NewRootCmd("test", globals)
	root.AddCommand(cli.NewProbeCmd(a.runProbe))
	root.AddCommand(cli.NewDumpCmd(globals, a.runDump))
	root.AddCommand(cli.NewDiffCmd(globals, a.runDiff))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestProbe(t *testing.T) {
	dir := testdataDir()
	out, _, err := execute(t, "probe", filepath.Join(dir, "libFoo.tbd"), filepath.Join(dir, "binary.dylib"))
	require.NoError(t, err)
	assert.Contains(t, out, "libFoo.tbd: isSupported = true\n")
	assert.Contains(t, out, "binary.dylib: isSupported = false\n")
}

func TestDump_Text(t *testing.T) {
	dir := testdataDir()
	out, errOut, err := execute(t, "dump", filepath.Join(dir, "libFoo.tbd"), filepath.Join(dir, "binary.dylib"))
	require.NoError(t, err)

	assert.Contains(t, out, "---- "+filepath.Join(dir, "libFoo.tbd")+"\ninstall-name: /usr/lib/libFoo.dylib\n")
	assert.Contains(t, out, "exports:\n  _foo\n")
	assert.Contains(t, out, "---- "+filepath.Join(dir, "binary.dylib")+"\nisSupported = false\n")
	assert.Contains(t, errOut, "Failed to parse: [not-this-format]")
}

func TestDump_MissingArchContinues(t *testing.T) {
	dir := testdataDir()
	out, errOut, err := execute(t, "dump", "--arch", "arm64", "--arch", "x86_64", filepath.Join(dir, "libFoo.tbd"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "Failed to parse: [missing-architecture]")
	assert.Contains(t, out, "architecture: x86_64")
}

func TestDump_HideDirective(t *testing.T) {
	dir := testdataDir()
	p := filepath.Join(dir, "libSystem.tbd")

	out, _, err := execute(t, "dump", "--min-os", "10.9", p)
	require.NoError(t, err)
	assert.Contains(t, out, "  _legacy\n")
	assert.NotContains(t, out, "$ld$hide$")

	out, _, err = execute(t, "dump", "--min-os", "10.10", p)
	require.NoError(t, err)
	assert.NotContains(t, out, "  _legacy\n")
}

func TestDump_JSON(t *testing.T) {
	dir := testdataDir()
	out, _, err := execute(t, "dump", "--format", "json", filepath.Join(dir, "libFoo.tbd"))
	require.NoError(t, err)
	assert.Contains(t, out, `"install_name": "/usr/lib/libFoo.dylib"`)
	assert.Contains(t, out, `"supported": true`)
}

func TestDump_MissingInput(t *testing.T) {
	_, _, err := execute(t, "dump", filepath.Join(t.TempDir(), "missing.tbd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.tbd")
	newPath := filepath.Join(dir, "new.tbd")
	require.NoError(t, os.WriteFile(oldPath, []byte(`---
archs: [ x86_64 ]
install-name: /usr/lib/libFoo.dylib
compatibility-version: 1
exports:
  - archs: [ x86_64 ]
    symbols: [ _foo, _bar ]
...
`), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(`---
archs: [ x86_64 ]
install-name: /usr/lib/libFoo.dylib
compatibility-version: 2
exports:
  - archs: [ x86_64 ]
    symbols: [ _foo, _baz ]
...
`), 0o644))

	out, _, err := execute(t, "diff", oldPath, newPath)
	require.NoError(t, err)
	assert.Equal(t, `arch: x86_64
! compatibility_version_changed: 1.0.0 -> 2.0.0 (upgrade)
! removed _bar
  added _baz
3 change(s), 2 breaking
`, out)
}

func TestDiff_ResolveFailure(t *testing.T) {
	dir := testdataDir()
	_, _, err := execute(t, "diff", "--arch", "arm64", filepath.Join(dir, "libFoo.tbd"), filepath.Join(dir, "libFoo.tbd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving old stub")
}
