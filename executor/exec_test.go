package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaunchRejectsEmpty(t *testing.T) {
	e := New()
	require.Error(t, e.Launch("   "))
}

func TestLaunchStartsProcess(t *testing.T) {
	e := New()
	require.NoError(t, e.Launch("true"))
}

func TestGenerateSplitsLines(t *testing.T) {
	lines, err := Generate(context.Background(), "printf 'a\\nb\\nc\\n'")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestGenerateEmptyOutput(t *testing.T) {
	lines, err := Generate(context.Background(), "true")
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestPIDFileExclusive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rofi.pid")

	first, err := Acquire(path)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = Acquire(path)
	require.Error(t, err)

	require.NoError(t, first.Release())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestPIDFileEmptyPathNoop(t *testing.T) {
	pf, err := Acquire("")
	require.NoError(t, err)
	require.Nil(t, pf)
	require.NoError(t, pf.Release())
}
