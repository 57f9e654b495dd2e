package depledger

import (
	"errors"
	"testing"

	"github.com/Norgate-AV/clcache/internal/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	l := New()

	_, ok := l.Get("a.h")
	assert.False(t, ok)

	want := digest.Sum([]byte("a"))
	l.Set("a.h", want)

	got, ok := l.Get("a.h")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetOrComputeCachesOnce(t *testing.T) {
	l := New()
	calls := 0
	compute := func(path string) (digest.Hash, error) {
		calls++
		return digest.Sum([]byte(path)), nil
	}

	h1, err := l.GetOrCompute("a.h", compute)
	require.NoError(t, err)
	h2, err := l.GetOrCompute("a.h", compute)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputePropagatesError(t *testing.T) {
	l := New()
	wantErr := errors.New("boom")
	_, err := l.GetOrCompute("a.h", func(string) (digest.Hash, error) {
		return digest.Hash{}, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, ok := l.Get("a.h")
	assert.False(t, ok, "failed compute must not be cached")
}
