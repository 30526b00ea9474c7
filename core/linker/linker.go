package linker

import (
	"context"
	"fmt"

	log "github.com/xuperchain/log15"

	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/arch"
	"github.com/emenda-labs/libstub/pkg/source"
)

// Loader turns one command-line input into stub buffers.
type Loader interface {
	Load(ctx context.Context, input string) ([]source.File, error)
}

// Request describes how each buffer is resolved.
type Request struct {
	Archs []arch.Architecture
	Mode  stub.Matching
	MinOS stub.PackedVersion
}

// Resolution is the outcome of resolving one buffer for one architecture.
type Resolution struct {
	Arch      string          `json:"arch" yaml:"arch"`
	Interface *stub.Interface `json:"interface,omitempty" yaml:"interface,omitempty"`
	Err       error           `json:"-" yaml:"-"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result collects every resolution of one buffer.
type Result struct {
	Name        string       `json:"name" yaml:"name"`
	Supported   bool         `json:"supported" yaml:"supported"`
	Resolutions []Resolution `json:"resolutions" yaml:"resolutions"`
}

// Linker loads inputs and resolves them through a StubReader, the way a
// static linker consults stubs for the libraries it links against.
type Linker struct {
	reader StubReader
	loader Loader
	log    log.Logger
}

// New creates a Linker. A nil logger discards records.
func New(reader StubReader, loader Loader, logger log.Logger) *Linker {
	if logger == nil {
		logger = log.New()
		logger.SetHandler(log.DiscardHandler())
	}
	return &Linker{reader: reader, loader: loader, log: logger}
}

// Load expands input into buffers.
func (l *Linker) Load(ctx context.Context, input string) ([]source.File, error) {
	files, err := l.loader.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	l.log.Debug("loaded input", "input", input, "files", len(files))
	return files, nil
}

// Probe reports whether f passes the reader's format check.
func (l *Linker) Probe(f source.File) bool {
	return l.reader.Probe(f.Name, f.Data)
}

// ResolveFile resolves f once per requested architecture. A failure for one
// architecture is recorded and does not stop the others.
func (l *Linker) ResolveFile(f source.File, req Request) Result {
	res := Result{
		Name:      f.Name,
		Supported: l.reader.Probe(f.Name, f.Data),
	}
	for _, a := range req.Archs {
		res.Resolutions = append(res.Resolutions, l.resolve(f, a, req))
	}
	return res
}

// ResolveOne resolves a single buffer for a single architecture.
func (l *Linker) ResolveOne(f source.File, a arch.Architecture, req Request) (*stub.Interface, error) {
	r := l.resolve(f, a, req)
	return r.Interface, r.Err
}

// LoadOne loads input and requires it to expand to exactly one buffer.
func (l *Linker) LoadOne(ctx context.Context, input string) (source.File, error) {
	files, err := l.Load(ctx, input)
	if err != nil {
		return source.File{}, err
	}
	if len(files) != 1 {
		return source.File{}, fmt.Errorf("%s: expected exactly one stub, found %d", input, len(files))
	}
	return files[0], nil
}

func (l *Linker) resolve(f source.File, a arch.Architecture, req Request) Resolution {
	r := Resolution{Arch: a.String()}
	iface, err := l.reader.Resolve(f.Name, f.Data, a.CPUType(), a.CPUSubtype(), req.Mode, req.MinOS)
	if err != nil {
		l.log.Info("failed to resolve stub", "file", f.Name, "arch", a, "kind", stub.KindOf(err), "err", err)
		r.Err = err
		r.Error = err.Error()
		return r
	}
	r.Interface = iface
	return r
}
