package source

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubText = "---\ninstall-name: /usr/lib/libA.dylib\n...\n"

type fakeFetcher struct {
	bodies map[string][]byte
	calls  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	f.calls = append(f.calls, rawURL)
	data, ok := f.bodies[rawURL]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "libA.tbd")
	require.NoError(t, os.WriteFile(p, []byte(stubText), 0o644))

	files, err := NewLoader(&fakeFetcher{}).Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, p, files[0].Name)
	assert.Equal(t, stubText, string(files[0].Data))
}

func TestLoad_NonStubFilePassesThrough(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "libA.dylib")
	require.NoError(t, os.WriteFile(p, []byte{0xcf, 0xfa, 0xed, 0xfe}, 0o644))

	files, err := NewLoader(&fakeFetcher{}).Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "usr", "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usr", "lib", "libB.tbd"), []byte(stubText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usr", "lib", "libA.tbd"), []byte(stubText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usr", "lib", "notes.txt"), []byte("x"), 0o644))

	files, err := NewLoader(&fakeFetcher{}).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "usr", "lib", "libA.tbd"), files[0].Name)
	assert.Equal(t, filepath.Join(dir, "usr", "lib", "libB.tbd"), files[1].Name)
}

func TestLoad_LocalZip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sdk.zip")
	require.NoError(t, os.WriteFile(p, zipOf(t, map[string]string{"lib/libA.tbd": stubText}), 0o644))

	files, err := NewLoader(&fakeFetcher{}).Load(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, p+"!lib/libA.tbd", files[0].Name)
}

func TestLoad_URL(t *testing.T) {
	f := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/libA.tbd": []byte(stubText),
		"https://example.com/sdk":      zipOf(t, map[string]string{"libB.tbd": stubText}),
	}}
	l := NewLoader(f)

	files, err := l.Load(context.Background(), "https://example.com/libA.tbd")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "https://example.com/libA.tbd", files[0].Name)

	files, err = l.Load(context.Background(), "https://example.com/sdk")
	require.NoError(t, err, "zip content is detected without an extension")
	require.Len(t, files, 1)
	assert.Equal(t, "https://example.com/sdk!libB.tbd", files[0].Name)

	_, err = l.Load(context.Background(), "https://example.com/missing.tbd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download")
	assert.Len(t, f.calls, 3)
}

func TestLoad_Errors(t *testing.T) {
	l := NewLoader(&fakeFetcher{})

	_, err := l.Load(context.Background(), "")
	assert.Error(t, err)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.tbd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}
