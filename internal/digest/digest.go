// Package digest provides the fixed-size content hash shared by the cache
// entry codec, the dependency ledger, and the wrapper pipeline.
package digest

import (
	"crypto/sha256"
	"io"
	"os"
)

// Size is the length in bytes of a Hash.
const Size = sha256.Size

// Hash is a fixed-size content digest.
type Hash [Size]byte

// IsZero reports whether h is the zero digest (never produced by Sum/SumFile).
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Sum returns the digest of data.
func Sum(data []byte) Hash {
	var h Hash
	sum := sha256.Sum256(data)
	copy(h[:], sum[:])
	return h
}

// SumFile returns the digest of the file at path.
func SumFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return Hash{}, err
	}

	var h Hash
	hasher.Sum(h[:0])
	return h, nil
}
