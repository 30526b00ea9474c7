package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want PackedVersion
	}{
		{"1.2.3", NewVersion(1, 2, 3)},
		{"10.11", NewVersion(10, 11, 0)},
		{"7", NewVersion(7, 0, 0)},
		{"", NewVersion(0, 0, 0)},
		{"abc", NewVersion(0, 0, 0)},
		{"1.2.3.4", NewVersion(1, 2, 3)},
		{"10.10$_bar", NewVersion(10, 10, 0)},
		{"2.5-beta", NewVersion(2, 5, 0)},
		{"1..3", NewVersion(1, 0, 3)},
		{"v1.2.3", NewVersion(0, 0, 0)},
		{"70000.300.2", NewVersion(0xFFFF, 0xFF, 2)},
		{"99999999999999.1", NewVersion(0xFFFF, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVersion(tt.in))
		})
	}
}

func TestPackedVersionComponents(t *testing.T) {
	v := NewVersion(10, 11, 4)
	assert.Equal(t, uint32(10), v.Major())
	assert.Equal(t, uint32(11), v.Minor())
	assert.Equal(t, uint32(4), v.Patch())
	assert.Equal(t, PackedVersion(0x000A0B04), v)
	assert.Equal(t, "10.11.4", v.String())
	assert.Equal(t, NewVersion(10, 11, 0), v.WithPatch(0))
	assert.Equal(t, "1.0.0", DefaultVersion.String())
}

func TestPackedVersionOrdering(t *testing.T) {
	assert.Less(t, NewVersion(10, 9, 255), NewVersion(10, 10, 0))
	assert.Less(t, NewVersion(10, 255, 0), NewVersion(11, 0, 0))
}

func TestParseUint(t *testing.T) {
	assert.Equal(t, uint32(0), ParseUint(""))
	assert.Equal(t, uint32(3), ParseUint("3"))
	assert.Equal(t, uint32(4), ParseUint("4.2"))
	assert.Equal(t, uint32(0), ParseUint("x5"))
	assert.Equal(t, uint32(4294967295), ParseUint("99999999999"))
}
