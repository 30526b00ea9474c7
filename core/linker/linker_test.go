package linker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
	"github.com/emenda-labs/libstub/pkg/source"
)

type fakeReader struct {
	supported bool
	byArch    map[int32]*stub.Interface
	calls     int
}

func (r *fakeReader) Probe(path string, data []byte) bool { return r.supported }

func (r *fakeReader) ShouldPreferTextForm(path string) bool { return true }

func (r *fakeReader) AreEquivalent(stubPath, binaryPath string) bool { return false }

func (r *fakeReader) Resolve(path string, data []byte, cpuType, cpuSubtype int32, mode stub.Matching, minOS stub.PackedVersion) (*stub.Interface, error) {
	r.calls++
	if iface, ok := r.byArch[cpuType]; ok {
		return iface, nil
	}
	e := stub.NewError(stub.KindMissingArchitecture, "missing required architecture")
	e.Path = path
	return nil, e
}

type fakeLoader map[string][]source.File

func (l fakeLoader) Load(ctx context.Context, input string) ([]source.File, error) {
	files, ok := l[input]
	if !ok {
		return nil, errors.New("no such input")
	}
	return files, nil
}

func TestResolveFile_PerArchOutcomes(t *testing.T) {
	reader := &fakeReader{
		supported: true,
		byArch: map[int32]*stub.Interface{
			arch.CPUTypeX86_64: {InstallName: "/usr/lib/libA.dylib", Architecture: "x86_64"},
		},
	}
	l := New(reader, fakeLoader{}, nil)

	res := l.ResolveFile(source.File{Name: "libA.tbd", Data: []byte("---\n...")}, Request{
		Archs: []arch.Architecture{arch.X86_64, arch.ARM64},
		Mode:  stub.MatchABICompatible,
	})

	assert.Equal(t, "libA.tbd", res.Name)
	assert.True(t, res.Supported)
	require.Len(t, res.Resolutions, 2)
	assert.Equal(t, "x86_64", res.Resolutions[0].Arch)
	require.NotNil(t, res.Resolutions[0].Interface)
	assert.NoError(t, res.Resolutions[0].Err)

	assert.Equal(t, "arm64", res.Resolutions[1].Arch)
	assert.Nil(t, res.Resolutions[1].Interface)
	assert.ErrorIs(t, res.Resolutions[1].Err, stub.ErrMissingArchitecture)
	assert.Contains(t, res.Resolutions[1].Error, "missing required architecture")
	assert.Equal(t, 2, reader.calls)
}

func TestLoadOne(t *testing.T) {
	loader := fakeLoader{
		"one":  {{Name: "a.tbd"}},
		"many": {{Name: "a.tbd"}, {Name: "b.tbd"}},
		"none": {},
	}
	l := New(&fakeReader{}, loader, nil)

	f, err := l.LoadOne(context.Background(), "one")
	require.NoError(t, err)
	assert.Equal(t, "a.tbd", f.Name)

	_, err = l.LoadOne(context.Background(), "many")
	assert.ErrorContains(t, err, "found 2")

	_, err = l.LoadOne(context.Background(), "none")
	assert.ErrorContains(t, err, "found 0")

	_, err = l.LoadOne(context.Background(), "missing")
	assert.Error(t, err)
}

func TestResolveOne(t *testing.T) {
	want := &stub.Interface{InstallName: "/a"}
	l := New(&fakeReader{byArch: map[int32]*stub.Interface{arch.CPUTypeARM64: want}}, fakeLoader{}, nil)

	got, err := l.ResolveOne(source.File{Name: "a.tbd"}, arch.ARM64e, Request{})
	require.NoError(t, err)
	assert.Same(t, want, got)

	got, err = l.ResolveOne(source.File{Name: "a.tbd"}, arch.I386, Request{})
	assert.Nil(t, got)
	assert.Equal(t, stub.KindMissingArchitecture, stub.KindOf(err))
}
