package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.Tokenize)
	require.Equal(t, MatchNormal, cfg.Matching)
	require.Equal(t, 25, cfg.HistorySize)
	require.Equal(t, '-', cfg.NegateChar)
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Equal(t, Default().Matching, cfg.Matching)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("matching: fuzzy\nsort: true\nthreads: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, MatchFuzzy, cfg.Matching)
	require.True(t, cfg.Sort)
	require.Equal(t, 4, cfg.Threads)
	// Unspecified fields keep their defaults.
	require.True(t, cfg.Tokenize)
}
