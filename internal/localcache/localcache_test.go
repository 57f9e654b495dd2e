package localcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
)

func TestLookupMissOnEmptyCache(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, found, err := c.Lookup(digest.Sum([]byte("key")))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	key := digest.Sum([]byte("foo.cpp|/c /I inc"))
	entry := entrycodec.Entry{
		FileIDs:     []string{"object"},
		Compression: entrycodec.CompressionAll,
		StdOut:      "",
		StdErr:      "",
		ReturnCode:  0,
		Dependencies: entrycodec.DependencyRecord{
			"foo.h": digest.Sum([]byte("header")),
		},
	}

	objPath := filepath.Join(dir, "foo.obj")
	require.NoError(t, os.WriteFile(objPath, []byte("object bytes"), 0o644))

	require.NoError(t, c.Store(key, entry, map[string]string{"object": objPath}))

	got, found, err := c.Lookup(key)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, entry.Equal(got))

	blob, err := os.ReadFile(filepath.Join(c.ArtifactDir(key), "object"))
	require.NoError(t, err)
	assert.Equal(t, "object bytes", string(blob))

	restoredPath := filepath.Join(dir, "restored.obj")
	require.NoError(t, c.Restore(key, map[string]string{"object": restoredPath}))
	restored, err := os.ReadFile(restoredPath)
	require.NoError(t, err)
	assert.Equal(t, "object bytes", string(restored))
}

func TestLookupIgnoresCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	key := digest.Sum([]byte("corrupt"))
	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(keyBytes(key), []byte("not a valid entry"))
	})
	require.NoError(t, err)

	_, found, err := c.Lookup(key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStatsCountsEntriesAndArtifactBytes(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, int64(0), stats.TotalSize)

	key := digest.Sum([]byte("k"))
	objPath := filepath.Join(dir, "x.obj")
	require.NoError(t, os.WriteFile(objPath, []byte("12345"), 0o644))
	entry := entrycodec.Entry{FileIDs: []string{"object"}}
	require.NoError(t, c.Store(key, entry, map[string]string{"object": objPath}))

	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(5), stats.TotalSize)
}

func TestClearRemovesEntriesAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	key := digest.Sum([]byte("k"))
	objPath := filepath.Join(dir, "x.obj")
	require.NoError(t, os.WriteFile(objPath, []byte("bytes"), 0o644))
	require.NoError(t, c.Store(key, entrycodec.Entry{FileIDs: []string{"object"}}, map[string]string{"object": objPath}))

	require.NoError(t, c.Clear())

	_, found, err := c.Lookup(key)
	require.NoError(t, err)
	assert.False(t, found)

	_, statErr := os.Stat(c.ArtifactDir(key))
	assert.True(t, os.IsNotExist(statErr))
}
