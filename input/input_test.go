package input

import (
	"context"
	"testing"
	"time"

	"github.com/rofi-go/rofi/config"
	"github.com/rofi-go/rofi/display/simscreen"
	"github.com/rofi-go/rofi/keybind"
	"github.com/rofi-go/rofi/match"
	"github.com/rofi-go/rofi/mode"
	"github.com/rofi-go/rofi/view"
	"github.com/rofi-go/rofi/worker"
	"github.com/stretchr/testify/require"
)

// fakeMode is a minimal mode.Mode test double, local to the input
// package's own tests.
type fakeMode struct {
	entries     []string
	reloadCalls int
}

func newFakeMode(entries ...string) *fakeMode { return &fakeMode{entries: entries} }

func (m *fakeMode) Name() string                     { return "fake" }
func (m *fakeMode) Init(context.Context) error       { return nil }
func (m *fakeMode) NumEntries() int                  { return len(m.entries) }
func (m *fakeMode) Completion(idx int) string         { return m.entries[idx] }
func (m *fakeMode) PreprocessInput(raw string) string { return raw }
func (m *fakeMode) Destroy()                          {}

func (m *fakeMode) Display(idx int, wantText bool) (*string, mode.StateFlags) {
	if !wantText {
		return nil, mode.StateNone
	}
	s := m.entries[idx]
	return &s, mode.StateNone
}

func (m *fakeMode) TokenMatch(tokens []match.TokenMatcher, idx int) bool {
	return match.Matches(tokens, m.entries[idx])
}

func (m *fakeMode) Result(event mode.AcceptEvent, input string, idx int) mode.Result {
	return mode.Result{Kind: mode.ResultOk}
}

func (m *fakeMode) Reload() error {
	m.reloadCalls++
	return nil
}

func TestLoopTypeFilterAndAccept(t *testing.T) {
	scr := simscreen.New(40, 10)
	m := newFakeMode("firefox", "file-manager", "emacs")
	bindings, errs := keybind.NewTable(keybind.Default())
	require.Empty(t, errs)
	loop := NewLoop(scr, bindings, nil)

	var accepted string
	vs := view.Create(m, config.Default(), worker.New(2), nil, nil, "", view.FlagNormal, func(v *view.ViewState) {
		if v.Retv == view.MenuOk {
			idx := v.Filtered().LineMap[v.Selected()]
			accepted = m.entries[idx]
		}
	})
	loop.Stack.Push(vs)

	scr.InjectKey(0, int16(keybind.KeyRune), 'f')
	scr.InjectKey(0, int16(keybind.KeyRune), 'i')
	scr.InjectKey(0, int16(keybind.KeyEnter), 0)
	scr.Close()

	err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "firefox", accepted)
}

func TestLoopEscapeCancels(t *testing.T) {
	scr := simscreen.New(40, 10)
	m := newFakeMode("a", "b")
	bindings, _ := keybind.NewTable(keybind.Default())
	loop := NewLoop(scr, bindings, nil)

	var retv view.MenuReturn
	vs := view.Create(m, config.Default(), worker.New(2), nil, nil, "", view.FlagNormal, func(v *view.ViewState) {
		retv = v.Retv
	})
	loop.Stack.Push(vs)

	scr.InjectKey(0, int16(keybind.KeyEsc), 0)
	scr.Close()

	err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, view.MenuCancel, retv)
	require.Equal(t, 1, retv.ExitCode())
}

func TestReloadCoalescesMultipleRequests(t *testing.T) {
	scr := simscreen.New(20, 5)
	m := newFakeMode("a", "b")
	bindings, _ := keybind.NewTable(keybind.Default())
	loop := NewLoop(scr, bindings, nil)
	loop.ReloadDebounce = 20 * time.Millisecond

	vs := view.Create(m, config.Default(), worker.New(2), nil, nil, "", view.FlagNormal, nil)
	loop.Stack.Push(vs)

	go func() {
		for i := 0; i < 5; i++ {
			scr.InjectKey(uint8(keybind.ModCtrl), int16(keybind.KeyRune), 'r')
			time.Sleep(2 * time.Millisecond)
		}
		time.Sleep(80 * time.Millisecond)
		scr.InjectKey(0, int16(keybind.KeyEsc), 0)
		scr.Close()
	}()

	err := loop.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, m.reloadCalls)
}

func TestLoopStopsWhenStackEmpty(t *testing.T) {
	scr := simscreen.New(10, 5)
	bindings, _ := keybind.NewTable(keybind.Default())
	loop := NewLoop(scr, bindings, nil)
	err := loop.Run(context.Background())
	require.NoError(t, err)
}
