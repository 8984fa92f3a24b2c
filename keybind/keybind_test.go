package keybind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSimpleKey(t *testing.T) {
	mod, key, r, err := Parse("Escape")
	require.NoError(t, err)
	require.Equal(t, ModNone, mod)
	require.Equal(t, KeyEsc, key)
	require.Equal(t, rune(0), r)
}

func TestParseModifiersAndRune(t *testing.T) {
	mod, key, r, err := Parse("Ctrl+Shift+p")
	require.NoError(t, err)
	require.Equal(t, ModCtrl|ModShift, mod)
	require.Equal(t, KeyRune, key)
	require.Equal(t, 'p', r)
}

func TestParseUnknownModifierErrors(t *testing.T) {
	_, _, _, err := Parse("Hyper+x")
	require.Error(t, err)
}

func TestParseEmptyBindingErrors(t *testing.T) {
	_, _, _, err := Parse("")
	require.Error(t, err)
}

func TestParseMultiRuneTailErrors(t *testing.T) {
	_, _, _, err := Parse("Ctrl+ab")
	require.Error(t, err)
}

func TestTableResolveDistinguishesRuneFromNamedKey(t *testing.T) {
	table, errs := NewTable(map[string]Action{
		"Enter": "accept",
		"a":     "type-a",
	})
	require.Empty(t, errs)

	action, ok := table.Resolve(KeyEvent{Key: KeyEnter})
	require.True(t, ok)
	require.Equal(t, Action("accept"), action)

	action, ok = table.Resolve(KeyEvent{Key: KeyRune, Rune: 'a'})
	require.True(t, ok)
	require.Equal(t, Action("type-a"), action)

	_, ok = table.Resolve(KeyEvent{Key: KeyRune, Rune: 'b'})
	require.False(t, ok)
}

func TestNewTableSkipsUnparseableBindingsAndReportsErrors(t *testing.T) {
	table, errs := NewTable(map[string]Action{
		"Enter":       "accept",
		"NotAModKey+": "broken",
	})
	require.Len(t, errs, 1)
	_, ok := table.Resolve(KeyEvent{Key: KeyEnter})
	require.True(t, ok)
}

func TestDefaultBindingsParseCleanly(t *testing.T) {
	_, errs := NewTable(Default())
	require.Empty(t, errs)
}

func TestBindOverwritesExistingEntry(t *testing.T) {
	table := &Table{entries: make(map[tableKey]Action)}
	table.Bind(ModNone, KeyEnter, 0, "first")
	table.Bind(ModNone, KeyEnter, 0, "second")
	action, ok := table.Resolve(KeyEvent{Key: KeyEnter})
	require.True(t, ok)
	require.Equal(t, Action("second"), action)
}
