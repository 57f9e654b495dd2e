// Package wrapper implements the MSVC cl.exe wrapper pipeline: deciding
// whether an invocation can be cached, forming a fingerprint for each
// input file, consulting a cache, and running the real compiler on a
// miss while harvesting its outputs and reported dependencies.
package wrapper

import (
	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/Norgate-AV/clcache/internal/entrycodec"
)

// Env abstracts environment-variable lookup, structurally compatible with
// the Env interfaces in cmdline, msvcver, and filetracker.
type Env interface {
	Lookup(key string) (string, bool)
}

// Cache is the interface the pipeline consults for lookups and misses.
// internal/localcache.Cache implements it.
type Cache interface {
	Lookup(key digest.Hash) (entrycodec.Entry, bool, error)
	Store(key digest.Hash, entry entrycodec.Entry, sourcePaths map[string]string) error
	Restore(key digest.Hash, targets map[string]string) error
}

// BuildFile is one file the invocation is expected to produce, and
// whether it participates in caching (tlogs are written locally but are
// not themselves cached artifacts keyed by content; see buildfiles.go).
type BuildFile struct {
	Path      string
	Cacheable bool
}

// MissInfo carries one input file's state from cache-miss detection
// through RunForMiss to cache storage.
type MissInfo struct {
	InputName    string
	Key          digest.Hash
	BuildFiles   map[string]BuildFile
	Dependencies entrycodec.DependencyRecord
}

// Result is the outcome of handling one wrapper invocation: what should
// be reported back to whatever ran clcache as the compiler's own exit.
type Result struct {
	ReturnCode int
	StdOut     string
	StdErr     string
	Cached     bool
}
