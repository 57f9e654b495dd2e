// Package localcache is a BoltDB-backed content-addressed store for
// compiler-invocation cache entries: one bucket mapping a hex-encoded
// fingerprint key to its entrycodec-serialized entry, and a filesystem
// tree of artifact blobs referenced by each entry's file IDs.
package localcache

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
)

const (
	dbFileName    = "cache.db"
	bucketName    = "entries"
	artifactsDir  = "artifacts"
	openDBTimeout = 1 * time.Second
)

// Cache is a local, BoltDB-backed cache of entrycodec.Entry values keyed
// by a digest.Hash fingerprint, plus the artifact files each entry names.
type Cache struct {
	db   *bbolt.DB
	root string
}

// New opens (creating if necessary) the cache rooted at dir.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localcache: creating cache directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, dbFileName), 0o600, &bbolt.Options{Timeout: openDBTimeout})
	if err != nil {
		return nil, fmt.Errorf("localcache: opening cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("localcache: creating entries bucket: %w", err)
	}

	return &Cache{db: db, root: dir}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the decoded entry stored under key, if any. A corrupt
// blob (unknown format version, truncated data) is treated as a miss, not
// an error, per the wrapper's error-handling design.
func (c *Cache) Lookup(key digest.Hash) (entrycodec.Entry, bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		v := b.Get(keyBytes(key))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return entrycodec.Entry{}, false, fmt.Errorf("localcache: reading entry: %w", err)
	}
	if raw == nil {
		return entrycodec.Entry{}, false, nil
	}

	entry, err := entrycodec.Decode(raw)
	if err != nil {
		return entrycodec.Entry{}, false, nil
	}
	return entry, true, nil
}

// Store writes entry under key and copies its referenced artifact blobs
// (one per file ID, resolved from sourcePaths) into the artifact
// directory for key.
func (c *Cache) Store(key digest.Hash, entry entrycodec.Entry, sourcePaths map[string]string) error {
	raw, err := entrycodec.Encode(entry)
	if err != nil {
		return fmt.Errorf("localcache: encoding entry: %w", err)
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.Put(keyBytes(key), raw)
	})
	if err != nil {
		return fmt.Errorf("localcache: writing entry: %w", err)
	}

	dir := c.ArtifactDir(key)
	for _, id := range entry.FileIDs {
		src, ok := sourcePaths[id]
		if !ok {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, id)); err != nil {
			return fmt.Errorf("localcache: copying artifact %q: %w", id, err)
		}
	}

	return nil
}

// Restore copies key's artifact blobs to the filesystem paths named by
// targets (file ID -> destination path), for every file ID in targets.
// A target whose blob is not in the artifact directory is an error.
func (c *Cache) Restore(key digest.Hash, targets map[string]string) error {
	dir := c.ArtifactDir(key)
	for id, dst := range targets {
		if err := copyFile(filepath.Join(dir, id), dst); err != nil {
			return fmt.Errorf("localcache: restoring artifact %q: %w", id, err)
		}
	}
	return nil
}

// ArtifactDir returns the directory holding key's artifact blobs.
func (c *Cache) ArtifactDir(key digest.Hash) string {
	return filepath.Join(c.root, artifactsDir, hex.EncodeToString(key[:]))
}

// Clear removes every entry and artifact from the cache.
func (c *Cache) Clear() error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return fmt.Errorf("localcache: clearing entries: %w", err)
	}

	if err := os.RemoveAll(filepath.Join(c.root, artifactsDir)); err != nil {
		return fmt.Errorf("localcache: removing artifacts: %w", err)
	}
	return nil
}

// Stats is a snapshot of cache occupancy.
type Stats struct {
	Entries   int
	TotalSize int64
}

// Stats reports the number of entries and the total size on disk of all
// artifact blobs.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		s.Entries = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("localcache: reading stats: %w", err)
	}

	walkErr := filepath.Walk(filepath.Join(c.root, artifactsDir), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Directory may not exist yet; ignore.
		}
		if !info.IsDir() {
			s.TotalSize += info.Size()
		}
		return nil
	})
	if walkErr != nil {
		return Stats{}, fmt.Errorf("localcache: walking artifacts: %w", walkErr)
	}

	return s, nil
}

func keyBytes(h digest.Hash) []byte {
	return []byte(hex.EncodeToString(h[:]))
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
