package cmd

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorCarriesCode(t *testing.T) {
	var err error = &exitError{code: 2}
	assert.Equal(t, "compiler exited with code 2", err.Error())

	ec, ok := err.(exitCoder)
	require.True(t, ok)
	assert.Equal(t, 2, ec.ExitCode())
}

func TestRunRealSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	require.NoError(t, runReal([]string{"true"}))
}

func TestRunRealSurfacesNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	err := runReal([]string{"false"})
	require.Error(t, err)

	ec, ok := err.(exitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, ec.ExitCode())
}

func TestRunWrapDeclinesForUnsupportedDriver(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}

	target := &cobra.Command{Use: "clcache"}
	target.Flags().String("dir", t.TempDir(), "")
	target.Flags().Bool("compress", false, "")
	target.Flags().Bool("debug", false, "")
	target.Flags().Bool("disable", false, "")

	var out bytes.Buffer
	target.SetOut(&out)
	target.SetErr(&out)

	// "true" isn't cl.exe: the wrapper declines, and runWrap falls back
	// to running it directly.
	require.NoError(t, runWrap(target, []string{"true"}))
}
