// Package depledger memoizes path -> content digest lookups within a
// single wrapper invocation, so a dependency shared by several includes is
// only hashed once.
package depledger

import (
	"github.com/Norgate-AV/clcache/internal/digest"
)

// Ledger is a per-run path -> digest cache. It is never invalidated during
// a run: the compiler's dependency report is trusted for the lifetime of
// the invocation that produced it.
type Ledger struct {
	digests map[string]digest.Hash
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{digests: make(map[string]digest.Hash)}
}

// Get returns the recorded digest for path, if any.
func (l *Ledger) Get(path string) (digest.Hash, bool) {
	h, ok := l.digests[path]
	return h, ok
}

// Set records the digest for path.
func (l *Ledger) Set(path string, h digest.Hash) {
	l.digests[path] = h
}

// GetOrCompute returns the recorded digest for path, computing and storing
// it via compute if absent.
func (l *Ledger) GetOrCompute(path string, compute func(string) (digest.Hash, error)) (digest.Hash, error) {
	if h, ok := l.Get(path); ok {
		return h, nil
	}
	h, err := compute(path)
	if err != nil {
		return digest.Hash{}, err
	}
	l.Set(path, h)
	return h, nil
}
