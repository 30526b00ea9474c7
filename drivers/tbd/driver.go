package tbd

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/xuperchain/log15"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/libstub/core/linker"
	"github.com/emenda-labs/libstub/core/stub"
	"github.com/emenda-labs/libstub/drivers/tbd/document"
)

var _ linker.StubReader = (*Driver)(nil)

const (
	defaultCacheExpiration = 5 * time.Minute
	defaultCacheCleanup    = 10 * time.Minute
)

// Driver implements linker.StubReader for YAML text-based stubs.
// It is safe for concurrent use.
type Driver struct {
	// docs memoizes mapped documents by content hash so that resolving one
	// buffer for several architectures parses it once. Stored documents are
	// never modified.
	docs *cache.Cache
	log  log.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for debug events.
func WithLogger(logger log.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.log = logger
		}
	}
}

// WithCacheExpiration sets how long a parsed document stays memoized.
// A zero or negative duration disables memoization.
func WithCacheExpiration(expiration time.Duration) Option {
	return func(d *Driver) {
		if expiration <= 0 {
			d.docs = nil
			return
		}
		d.docs = cache.New(expiration, 2*expiration)
	}
}

// NewDriver creates a Driver with a discarding logger and a document cache.
func NewDriver(opts ...Option) *Driver {
	logger := log.New("module", "tbd")
	logger.SetHandler(log.DiscardHandler())

	d := &Driver{
		docs: cache.New(defaultCacheExpiration, defaultCacheCleanup),
		log:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Probe reports whether data passes the text stub format check.
func (d *Driver) Probe(path string, data []byte) bool {
	return Detect(data)
}

// ShouldPreferTextForm always returns true: no comparison against an
// installed binary is performed.
func (d *Driver) ShouldPreferTextForm(path string) bool {
	return true
}

// AreEquivalent is not supported and always returns false.
func (d *Driver) AreEquivalent(stubPath, binaryPath string) bool {
	return false
}

// Resolve parses data as a text stub and resolves it for one architecture.
func (d *Driver) Resolve(path string, data []byte, cpuType, cpuSubtype int32, mode stub.Matching, minOS stub.PackedVersion) (*stub.Interface, error) {
	if path == "" {
		return nil, stub.NewError(stub.KindEmptyPath, "path argument is empty")
	}
	if data == nil {
		e := stub.NewError(stub.KindNullOrMissingData, "data is nil")
		e.Path = path
		return nil, e
	}
	if !Detect(data) {
		e := stub.NewError(stub.KindNotThisFormat, "file does not look like a text-based stub; might be a binary")
		e.Path = path
		return nil, e
	}

	doc, err := d.Parse(path, data)
	if err != nil {
		return nil, err
	}

	iface, err := Resolve(doc, cpuType, cpuSubtype, mode, minOS)
	if err != nil {
		d.log.Debug("resolve failed", "path", path, "err", err)
		return nil, err
	}

	d.log.Debug("resolved stub", "path", path, "arch", iface.Architecture,
		"mode", mode, "min_os", minOS, "exports", len(iface.Exports))
	return iface, nil
}

// Parse decodes data and maps it into a Document without the format check.
func (d *Driver) Parse(path string, data []byte) (document.Document, error) {
	key := contentKey(data)
	if d.docs != nil {
		if cached, ok := d.docs.Get(key); ok {
			doc := cached.(document.Document)
			doc.Path = path
			d.log.Debug("document cache hit", "path", path)
			return doc, nil
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		e := stub.Errorf(stub.KindMalformedDocument, "invalid YAML: %v", err)
		e.Path = path
		return document.Document{}, e
	}

	doc, err := document.Map(&root, path)
	if err != nil {
		return document.Document{}, err
	}

	if d.docs != nil {
		d.docs.SetDefault(key, doc)
	}
	d.log.Debug("parsed stub", "path", path, "install_name", doc.InstallName,
		"archs", len(doc.Archs), "export_groups", len(doc.Exports))
	return doc, nil
}

func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
