package score

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuzzySubsequence(t *testing.T) {
	require.True(t, IsSubsequence("ace", "abcdef", false))
	require.False(t, IsSubsequence("fba", "abcdef", false))
	require.Equal(t, Worst, Score("fba", "abcdef", false))
}

func TestEmptyPatternAlwaysMatches(t *testing.T) {
	require.Equal(t, int32(0), Score("", "anything", false))
}

func TestScorerMonotonicity(t *testing.T) {
	prefix := Score("ab", "abcdef", false)
	middle := Score("ab", "xxabxx", false)
	require.Less(t, prefix, middle)
}

func TestWordStartBeatsMidWord(t *testing.T) {
	wordStart := Score("han", "file_handler.go", false)
	midWord := Score("han", "file_xhandler.go", false)
	require.Less(t, wordStart, midWord)
}

func TestConsecutiveBeatsSplit(t *testing.T) {
	consec := Score("hand", "handler.go", false)
	split := Score("hand", "hasnd.go", false)
	require.Less(t, consec, split)
}

func TestCaseSensitivity(t *testing.T) {
	require.True(t, IsSubsequence("AB", "aabb", true) == false)
	require.True(t, IsSubsequence("AB", "AaBb", true))
}

func TestZZZNeverMatchesAB(t *testing.T) {
	// "zzz" must never appear in the filtered view for query "ab" — sanity
	// check before filter.go's integration test relies on it.
	require.Equal(t, Worst, Score("ab", "zzz", false))
}
