package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrependPromotesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	h, err := Open(path, 3, nil)
	require.NoError(t, err)

	require.NoError(t, h.PrependOrPromote("firefox"))
	require.NoError(t, h.PrependOrPromote("vim"))
	require.NoError(t, h.PrependOrPromote("firefox"))

	require.Equal(t, []string{"firefox", "vim"}, h.Entries())
}

func TestTruncateToMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	h, err := Open(path, 2, nil)
	require.NoError(t, err)

	require.NoError(t, h.PrependOrPromote("a"))
	require.NoError(t, h.PrependOrPromote("b"))
	require.NoError(t, h.PrependOrPromote("c"))

	require.Equal(t, []string{"c", "b"}, h.Entries())
}

func TestIgnoredPrefixNeverInserted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	h, err := Open(path, 10, []string{"sudo "})
	require.NoError(t, err)

	require.NoError(t, h.PrependOrPromote("sudo reboot"))
	require.NoError(t, h.PrependOrPromote("vim"))

	require.Equal(t, []string{"vim"}, h.Entries())
}

func TestOpenLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run")
	require.NoError(t, os.WriteFile(path, []byte("b\na\n"), 0600))

	h, err := Open(path, 10, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, h.Entries())
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "missing"), 10, nil)
	require.NoError(t, err)
	require.Empty(t, h.Entries())
}
