package filetracker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func TestDisabledByDefault(t *testing.T) {
	l := NewLog(mapEnv{})
	assert.False(t, l.Enabled())
	assert.Nil(t, l.BuildFiles("foo.cpp"))
}

func TestBuildFilesNaming(t *testing.T) {
	env := mapEnv{
		"TRACKER_ENABLED":      "1",
		"TRACKER_INTERMEDIATE": `C:\inter`,
		"TRACKER_TOOLCHAIN":    "CL",
	}
	l := NewLog(env)
	require.True(t, l.Enabled())

	files := l.BuildFiles("foo.bar.cpp")
	assert.Equal(t, filepath.Join(`C:\inter`, "CL.foo_bar_cpp.read.1.tlog"), files["tlog_r"])
	assert.Equal(t, filepath.Join(`C:\inter`, "CL.foo_bar_cpp.write.1.tlog"), files["tlog_w"])
}

func TestWriteLogs(t *testing.T) {
	dir := t.TempDir()
	env := mapEnv{
		"TRACKER_ENABLED":      "true",
		"TRACKER_INTERMEDIATE": dir,
		"TRACKER_TOOLCHAIN":    "CL",
	}
	l := NewLog(env)

	source := filepath.Join(dir, "foo.cpp")
	require.NoError(t, os.WriteFile(source, []byte("int main(){}"), 0o644))
	l.AddSource(source)
	l.FinalizeSources()

	object := filepath.Join(dir, "foo.obj")
	dep := filepath.Join(dir, "foo.h")
	files := l.BuildFiles("foo.cpp")
	files["object"] = object

	require.NoError(t, l.WriteLogs(source, files, []string{dep}))

	readContent, err := os.ReadFile(files["tlog_r"])
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(string(readContent)), string(readContent))
	assert.Contains(t, string(readContent), strings.ToUpper(dep))
	assert.Contains(t, string(readContent), strings.ToUpper(object))

	writeContent, err := os.ReadFile(files["tlog_w"])
	require.NoError(t, err)
	assert.Contains(t, string(writeContent), strings.ToUpper(object))
}

func TestFinalizeSourcesSortsAndJoins(t *testing.T) {
	dir := t.TempDir()
	env := mapEnv{"TRACKER_ENABLED": "1", "TRACKER_INTERMEDIATE": dir, "TRACKER_TOOLCHAIN": "CL"}
	l := NewLog(env)

	b := filepath.Join(dir, "b.cpp")
	a := filepath.Join(dir, "a.cpp")
	l.AddSource(b)
	l.AddSource(a)
	l.FinalizeSources()

	assert.True(t, strings.HasPrefix(l.root, "^"))
	idxA := strings.Index(l.root, strings.ToUpper(a))
	idxB := strings.Index(l.root, strings.ToUpper(b))
	assert.True(t, idxA < idxB, "sources should be sorted")
}
