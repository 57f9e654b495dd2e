// Package entrycodec defines the on-disk cache entry format and its
// versioned binary encode/decode.
package entrycodec

import (
	"github.com/Norgate-AV/clcache/internal/digest"
)

// CompressionMode selects whether captured output is stored compressed.
type CompressionMode int32

const (
	// CompressionNone stores stdout/stderr uncompressed.
	CompressionNone CompressionMode = 0
	// CompressionAll stores stdout/stderr zstd-compressed.
	CompressionAll CompressionMode = 1
)

// DependencyRecord maps an absolute include path to the digest the
// compiler's report attributed to it at the time of the cache miss that
// produced this entry.
type DependencyRecord map[string]digest.Hash

// Entry is the persisted result of a single compiler-invocation cache miss.
type Entry struct {
	FileIDs      []string
	Compression  CompressionMode
	StdOut       string
	StdErr       string
	ReturnCode   int32
	Dependencies DependencyRecord
}

// Equal reports whether e and o describe the same entry, comparing
// dependency maps by content rather than identity.
func (e Entry) Equal(o Entry) bool {
	if e.Compression != o.Compression || e.StdOut != o.StdOut || e.StdErr != o.StdErr ||
		e.ReturnCode != o.ReturnCode || len(e.FileIDs) != len(o.FileIDs) || len(e.Dependencies) != len(o.Dependencies) {
		return false
	}
	for i, id := range e.FileIDs {
		if o.FileIDs[i] != id {
			return false
		}
	}
	for k, v := range e.Dependencies {
		if ov, ok := o.Dependencies[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
