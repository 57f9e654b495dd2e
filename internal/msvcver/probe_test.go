package msvcver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeFromEnv(t *testing.T) {
	env := MapEnv{
		"VSCMD_ARG_HOST_ARCH": "x64",
		"VSCMD_ARG_TGT_ARCH":  "x86",
		"VCToolsVersion":      "14.27.29110",
	}

	tv, err := Probe(env, `C:\unrelated\path\cl.exe`)
	require.NoError(t, err)
	assert.Equal(t, "x64", tv.HostArch)
	assert.Equal(t, "x86", tv.TargetArch)
	assert.Equal(t, Version{14, 27, 29110, 0}, tv.VCVersion)
}

func TestProbeFromPath(t *testing.T) {
	env := MapEnv{}
	path := `C:\VC\Tools\MSVC\14.29.30133\bin\HostX64\x86\cl.exe`

	tv, err := Probe(env, path)
	require.NoError(t, err)
	assert.Equal(t, "X64", tv.HostArch)
	assert.Equal(t, "x86", tv.TargetArch)
	assert.Equal(t, Version{14, 29, 30133, 0}, tv.VCVersion)
}

func TestProbeFailsWithoutPathOrEnv(t *testing.T) {
	env := MapEnv{}
	_, err := Probe(env, `cl.exe`)
	assert.Error(t, err)
}

func TestProbeMissingToolsVersion(t *testing.T) {
	env := MapEnv{
		"VSCMD_ARG_HOST_ARCH": "x64",
		"VSCMD_ARG_TGT_ARCH":  "x86",
	}
	_, err := Probe(env, `cl.exe`)
	assert.Error(t, err)
}
