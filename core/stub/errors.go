package stub

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a resolution failure.
type Kind string

const (
	KindEmptyPath                Kind = "empty-path"
	KindNullOrMissingData        Kind = "null-or-missing-data"
	KindNotThisFormat            Kind = "not-this-format"
	KindMalformedDocument        Kind = "malformed-document"
	KindUnsupportedConstraint    Kind = "unsupported-constraint"
	KindUnrecognizedArchitecture Kind = "unrecognized-architecture"
	KindMissingArchitecture      Kind = "missing-architecture"
)

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrEmptyPath                = &Error{Kind: KindEmptyPath}
	ErrNullOrMissingData        = &Error{Kind: KindNullOrMissingData}
	ErrNotThisFormat            = &Error{Kind: KindNotThisFormat}
	ErrMalformedDocument        = &Error{Kind: KindMalformedDocument}
	ErrUnsupportedConstraint    = &Error{Kind: KindUnsupportedConstraint}
	ErrUnrecognizedArchitecture = &Error{Kind: KindUnrecognizedArchitecture}
	ErrMissingArchitecture      = &Error{Kind: KindMissingArchitecture}
)

// Error is the only failure type produced by stub parsing and resolution.
// Every failure is terminal for the call that produced it.
type Error struct {
	Kind    Kind
	Message string
	// Path is the source file of the document, when known.
	Path string
	// Arch names the architecture involved, for architecture failures.
	Arch string
}

func (e *Error) Error() string {
	if e == nil {
		return "stub error <nil>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " (file: %s)", e.Path)
	}
	return b.String()
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// NewError builds an Error with a message.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf formats a message and builds an Error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// KindOf extracts the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return ""
}

// WithPath returns err with Path set when err is an *Error without one.
// Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var e *Error
	if !errors.As(err, &e) || e == nil || e.Path != "" {
		return err
	}
	cp := *e
	cp.Path = path
	return &cp
}
