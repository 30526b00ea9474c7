package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	maxFileSize  = 16 * 1024 * 1024  // 16 MB per stub
	maxTotalSize = 512 * 1024 * 1024 // 512 MB total read
	maxFileCount = 50000             // maximum number of entries in archive
)

// StubExtension is the file extension of text-based stubs.
const StubExtension = ".tbd"

// Entry is one stub read out of an archive.
type Entry struct {
	Name string
	Data []byte
}

// ReadStubs returns every .tbd entry of a zip archive, such as a zipped SDK,
// read into memory and sorted by name. Nothing is written to disk.
// Entries with absolute or parent-relative names are rejected, and size
// limits guard against zip bombs.
func ReadStubs(data []byte) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read zip archive")
	}

	if len(reader.File) > maxFileCount {
		return nil, errors.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), maxFileCount)
	}

	var entries []Entry
	var totalRead int64

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || file.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if !strings.HasSuffix(file.Name, StubExtension) {
			continue
		}

		name, err := cleanName(file.Name)
		if err != nil {
			return nil, err
		}

		rc, err := file.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open zip entry %s", file.Name)
		}

		buf, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", file.Name)
		}
		if int64(len(buf)) > maxFileSize {
			return nil, errors.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
		}

		totalRead += int64(len(buf))
		if totalRead > maxTotalSize {
			return nil, errors.Errorf("total extracted size exceeds maximum of %d bytes", maxTotalSize)
		}

		entries = append(entries, Entry{Name: name, Data: buf})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// IsZip reports whether data starts with a zip local file header.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// cleanName rejects entry names that would escape the archive root.
func cleanName(name string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Errorf("zip entry attempts path traversal: %s", name)
	}
	return cleaned, nil
}
