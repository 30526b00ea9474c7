package stub

import (
	"math"
	"strconv"
)

// PackedVersion is a major.minor.patch triple packed as
// major<<16 | minor<<8 | patch.
type PackedVersion uint32

const (
	maxMajor = 0xFFFF
	maxMinor = 0xFF
	maxPatch = 0xFF
)

// DefaultVersion is used when a document omits a version field.
var DefaultVersion = NewVersion(1, 0, 0)

// NewVersion packs the components, saturating each at its field width.
func NewVersion(major, minor, patch uint32) PackedVersion {
	return PackedVersion(min(major, maxMajor)<<16 | min(minor, maxMinor)<<8 | min(patch, maxPatch))
}

func (v PackedVersion) Major() uint32 { return uint32(v) >> 16 }
func (v PackedVersion) Minor() uint32 { return uint32(v) >> 8 & 0xFF }
func (v PackedVersion) Patch() uint32 { return uint32(v) & 0xFF }

// WithPatch returns v with its patch component replaced.
func (v PackedVersion) WithPatch(patch uint32) PackedVersion {
	return PackedVersion(uint32(v)&0xFFFFFF00 | min(patch, maxPatch))
}

func (v PackedVersion) String() string {
	return strconv.FormatUint(uint64(v.Major()), 10) + "." +
		strconv.FormatUint(uint64(v.Minor()), 10) + "." +
		strconv.FormatUint(uint64(v.Patch()), 10)
}

// MarshalText renders the version as A.B.C.
func (v PackedVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseVersion reads up to three dot-separated decimal components from s.
// Parsing stops silently at the first character that is neither a digit nor
// a dot, and at a fourth component; missing components are zero. An empty or
// non-numeric string yields 0.0.0.
func ParseVersion(s string) PackedVersion {
	var parts [3]uint32
	idx := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			idx++
			if idx == len(parts) {
				break
			}
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		parts[idx] = accumulate(parts[idx], c)
	}
	return NewVersion(parts[0], parts[1], parts[2])
}

// ParseUint reads a leading unsigned decimal from s, stopping at the first
// non-digit. The result saturates at math.MaxUint32.
func ParseUint(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = accumulate(n, c)
	}
	return n
}

func accumulate(n uint32, digit byte) uint32 {
	d := uint32(digit - '0')
	if n > (math.MaxUint32-d)/10 {
		return math.MaxUint32
	}
	return n*10 + d
}
