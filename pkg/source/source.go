// Package source turns command-line inputs into stub buffers. An input is a
// URL, a zip bundle, a directory or a single stub file.
package source

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/emenda-labs/libstub/pkg/archive"
	"github.com/emenda-labs/libstub/pkg/remote"
)

// File is one stub buffer and the name it is reported under.
type File struct {
	Name string
	Data []byte
}

// Fetcher downloads a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Loader resolves inputs to stub buffers.
type Loader struct {
	fetcher Fetcher
}

// NewLoader creates a Loader. A nil fetcher uses remote.NewClient.
func NewLoader(fetcher Fetcher) *Loader {
	if fetcher == nil {
		fetcher = remote.NewClient()
	}
	return &Loader{fetcher: fetcher}
}

// Load reads input. A zip bundle, local or remote, yields one File per .tbd
// entry named "<input>!<entry>". A directory yields every .tbd file below it
// in lexical order. Anything else is returned as a single File, whatever its
// content, so that format checks stay with the caller.
func (l *Loader) Load(ctx context.Context, input string) ([]File, error) {
	if input == "" {
		return nil, errors.New("empty input")
	}

	if remote.IsURL(input) {
		data, err := l.fetcher.Fetch(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to download %s", input)
		}
		return expand(input, data)
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot access %s", input)
	}
	if info.IsDir() {
		return loadDir(ctx, input)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", input)
	}
	return expand(input, data)
}

// expand unpacks zip bundles and passes other buffers through.
func expand(name string, data []byte) ([]File, error) {
	isZipName := strings.EqualFold(path.Ext(name), ".zip")
	if !isZipName && !archive.IsZip(data) {
		return []File{{Name: name, Data: data}}, nil
	}

	entries, err := archive.ReadStubs(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s", name)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		files = append(files, File{Name: name + "!" + e.Name, Data: e.Data})
	}
	return files, nil
}

func loadDir(ctx context.Context, dir string) ([]File, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), archive.StubExtension) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", p)
		}
		files = append(files, File{Name: p, Data: data})
	}
	return files, nil
}
