package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_ReemissionIdempotence(t *testing.T) {
	cases := [][]string{
		{"cl.exe", "/c", "/I", `C:\inc`, "foo.cpp", "/Fofoo.obj"},
		{"cl.exe", "/c", "/TC", "/D", "FOO=1", "/D", "BAR", "bar.c"},
		{"cl.exe", "/c", "/Yccommon.h", "pch.cpp", "/Fpcommon.pch"},
		{"cl.exe", "/c", "/Z7", "/W4", "/EHsc", "a.cpp"},
	}

	for _, argv := range cases {
		first, err := Parse(argv, MapEnv{})
		require.NoError(t, err)
		firstMerged := first.Merge(MergeAll)

		second, err := Parse(append([]string{"cl.exe"}, firstMerged...), MapEnv{})
		require.NoError(t, err)

		// Re-emission may upgrade an Unknown declared type to an explicit
		// /Tc or /Tp once the effective type is known, but a second round
		// trip through merge/parse must be a fixpoint.
		assert.Equal(t, firstMerged, second.Merge(MergeAll), "merge(parse(args)) should be stable for %v", argv)
	}
}

func TestMerge_DirectModeCommonArgsDropsDefaultTypeAndInputs(t *testing.T) {
	p, err := Parse([]string{"cl.exe", "/c", "/TP", "/I", "inc", "foo.c"}, MapEnv{})
	require.NoError(t, err)

	got := p.Merge(MergeDirectModeCommonArgs)
	assert.NotContains(t, got, "/TP")
	for _, tok := range got {
		assert.NotContains(t, tok, "foo.c")
	}
}

func TestMerge_SkipCoveredByPreprocessDropsIncludesDefinesObjectPath(t *testing.T) {
	p, err := Parse([]string{"cl.exe", "/c", "/I", "inc", "/D", "X=1", "/Foout.obj", "foo.c"}, MapEnv{})
	require.NoError(t, err)

	got := p.Merge(MergeSkipCoveredByPreprocess)
	for _, tok := range got {
		assert.NotContains(t, tok, "inc")
		assert.NotContains(t, tok, "X=1")
		assert.NotContains(t, tok, "out.obj")
	}
}

func TestMerge_SkipInputsOmitsFiles(t *testing.T) {
	p, err := Parse([]string{"cl.exe", "/c", "foo.cpp", "bar.cpp", "/Fo", `dir\`}, MapEnv{})
	require.NoError(t, err)

	got := p.Merge(MergeSkipInputs)
	for _, tok := range got {
		assert.NotContains(t, tok, "foo.cpp")
		assert.NotContains(t, tok, "bar.cpp")
	}
}
