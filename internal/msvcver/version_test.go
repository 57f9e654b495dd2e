package msvcver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"14.27.0.0", Version{14, 27, 0, 0}},
		{"14.27", Version{14, 27, 0, 0}},
		{"14.27.29110.4", Version{14, 27, 29110, 4}},
		{"14.27.29110.4.99", Version{14, 27, 29110, 4}},
		{"", Version{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), "Parse(%q)", tt.in)
	}
}

func TestPackedRoundTrip(t *testing.T) {
	v := Version{14, 27, 29110, 4}
	assert.Equal(t, v, FromPacked(v.Packed()))
}

func TestCompare(t *testing.T) {
	assert.True(t, Version{14, 26, 0, 0}.Less(Version{14, 27, 0, 0}))
	assert.True(t, Version{14, 27, 0, 0}.Less(Version{14, 27, 0, 1}))
	assert.False(t, Version{14, 27, 0, 0}.Less(Version{14, 27, 0, 0}))
	assert.Equal(t, 0, Version{1, 2, 3, 4}.Compare(Version{1, 2, 3, 4}))
}

func TestAsString(t *testing.T) {
	v := Version{14, 27, 29110, 4}
	assert.Equal(t, "14.27.29110.4", v.AsString())
	assert.Equal(t, "14", v.AsString(1))
	assert.Equal(t, "14.27", v.AsString(2))
}

func TestSupportsSourceDependencies(t *testing.T) {
	tv := ToolVersion{VCVersion: Version{14, 26, 0, 0}}
	assert.False(t, tv.SupportsSourceDependencies())

	tv.VCVersion = Version{14, 27, 0, 0}
	assert.True(t, tv.SupportsSourceDependencies())

	tv.VCVersion = Version{15, 0, 0, 0}
	assert.True(t, tv.SupportsSourceDependencies())
}

func TestProgramID(t *testing.T) {
	tv := ToolVersion{HostArch: "x64", TargetArch: "x86", VCVersion: Version{14, 27, 0, 0}}
	assert.Equal(t, "1x64x8614.27.0.0", tv.ProgramID("1"))
}
