// Package input implements the InputLoop: a single-threaded cooperative
// event dispatcher that turns key/text/mouse/paste events and a
// reload-debounce timer into ViewState mutations and a redraw, owning the
// global view stack — only the top view receives input.
package input

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rofi-go/rofi/display"
	"github.com/rofi-go/rofi/keybind"
	"github.com/rofi-go/rofi/logging"
	"github.com/rofi-go/rofi/mode"
	"github.com/rofi-go/rofi/theme"
	"github.com/rofi-go/rofi/view"
	"github.com/rofi-go/rofi/widget"
)

// Stack is the global view stack: only the top view receives input, and
// the stack pops on error-dialog dismissal or mode switch back.
type Stack struct {
	views []*view.ViewState
}

// Push makes vs the top (and only receiver) of input.
func (s *Stack) Push(vs *view.ViewState) { s.views = append(s.views, vs) }

// Pop removes the top view.
func (s *Stack) Pop() {
	if len(s.views) > 0 {
		s.views = s.views[:len(s.views)-1]
	}
}

// Top returns the view currently receiving input, or nil if the stack is
// empty.
func (s *Stack) Top() *view.ViewState {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[len(s.views)-1]
}

// Empty reports whether no view remains.
func (s *Stack) Empty() bool { return len(s.views) == 0 }

// reloadFireEvent is posted back through the Display once the reload
// debounce timer elapses — a reload request is coalesced over a 100 ms
// window.
type reloadFireEvent struct{}

// Loop is the single-threaded cooperative event dispatcher for all UI
// mutation and Mode callbacks. A worker pool is used only inside
// ViewState.Refilter and is joined before Refilter returns — Loop itself
// never spawns goroutines except the one-shot reload debounce timer.
type Loop struct {
	Display  display.Display
	Bindings *keybind.Table
	Log      *logging.Buffer
	Theme    *theme.Theme
	Stack    *Stack

	// ReloadDebounce is the coalescing window for reload requests,
	// nominally 100ms; overridable by tests.
	ReloadDebounce time.Duration

	reloadTimer *time.Timer
}

// NewLoop builds a Loop with an empty view stack and the default 100 ms
// reload-debounce window.
func NewLoop(d display.Display, bindings *keybind.Table, log *logging.Buffer) *Loop {
	return &Loop{
		Display:        d,
		Bindings:       bindings,
		Log:            log,
		Stack:          &Stack{},
		ReloadDebounce: 100 * time.Millisecond,
	}
}

// Run drives the loop until the view stack empties or ctx is cancelled.
// Each iteration: refilter the top view if pending and not deferred,
// render it, pop it if it has quit, otherwise block for the next event and
// dispatch it. A deferred refilter runs when an accept key arrives.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Display.Init(); err != nil {
		return err
	}
	defer l.Display.Fini()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.Stack.Empty() {
			return nil
		}
		vs := l.Stack.Top()

		if vs.NeedsRefilter() && !vs.RefilterDeferred() {
			vs.Refilter()
		}
		l.render(vs)

		if vs.Quit {
			if vs.Finalize != nil {
				vs.Finalize(vs)
			}
			l.Stack.Pop()
			continue
		}

		ev, ok := l.Display.PollEvent()
		if !ok {
			return nil
		}
		l.dispatch(vs, ev)
	}
}

func (l *Loop) dispatch(vs *view.ViewState, ev interface{}) {
	switch e := ev.(type) {
	case display.KeyEvent:
		l.dispatchKey(vs, e)
	case display.PasteEvent:
		vs.HandleText(e.Text)
	case display.MouseEvent:
		vs.HandleMouseMotion(e.X, e.Y)
	case display.ResizeEvent:
		if e.H > 1 {
			vs.PageSize = e.H - 1
		}
	case reloadFireEvent:
		l.fireReload(vs)
	}
}

func (l *Loop) dispatchKey(vs *view.ViewState, e display.KeyEvent) {
	kev := keybind.KeyEvent{Mod: keybind.Mod(e.Mod), Key: keybind.Key(e.Key), Rune: e.Rune}
	if action, ok := l.Bindings.Resolve(kev); ok {
		if action == view.ActionReload {
			l.scheduleReload()
			return
		}
		if action == view.ActionAccept && vs.NeedsRefilter() {
			// Deferred filtering catches up before the accept is applied.
			vs.Refilter()
		}
		vs.TriggerAction(action)
		return
	}
	if e.Rune != 0 && e.Key == keybind.KeyRune {
		vs.HandleText(string(e.Rune))
	}
}

// scheduleReload (re)starts the debounce timer; repeated reload requests
// within the window collapse into the single Mode.Reload() call the
// timer eventually fires.
func (l *Loop) scheduleReload() {
	if l.reloadTimer != nil {
		l.reloadTimer.Stop()
	}
	d := l.Display
	l.reloadTimer = time.AfterFunc(l.ReloadDebounce, func() {
		d.PostEvent(reloadFireEvent{})
	})
}

func (l *Loop) fireReload(vs *view.ViewState) {
	if err := vs.Mode.Reload(); err != nil && l.Log != nil {
		l.Log.WarnErr(err, "mode reload")
	}
	vs.ReloadRequest()
}

// render composes the prompt/input line and the filtered entry list into
// a widget tree and paints it.
func (l *Loop) render(vs *view.ViewState) {
	th := l.Theme
	if th == nil {
		th = theme.Default()
	}
	w, h := l.Display.Size()
	if w <= 0 || h <= 0 {
		return
	}
	l.Display.Clear()

	inputText := vs.Input
	if vs.Flags.Has(view.FlagPassword) {
		inputText = maskPassword(vs.Input)
	}
	inputLine := &widget.TextLine{Text: inputText, Style: th.For(theme.ElementPrompt)}

	listHeight := h - 1
	if listHeight < 0 {
		listHeight = 0
	}
	filtered := vs.Filtered()
	sel := vs.Selected()
	lines := make([]widget.TextLine, 0, filtered.Len())
	for i, idx := range filtered.LineMap {
		if i >= listHeight {
			break
		}
		text, state := vs.Mode.Display(int(idx), true)
		line := ""
		if text != nil {
			line = *text
		}
		style := th.For(theme.ElementNormal)
		switch {
		case i == sel:
			style = th.For(theme.ElementSelected)
		case state.Has(mode.StateUrgent):
			style = th.For(theme.ElementUrgent)
		case state.Has(mode.StateActive):
			style = th.For(theme.ElementActive)
		}
		lines = append(lines, widget.TextLine{Text: line, Style: style})
	}

	tree := &widget.Stack{Children: []widget.Widget{inputLine, &widget.List{Lines: lines}}}
	tree.Draw(display.NewViewProxy(l.Display))
	l.Display.Show()
}

func maskPassword(s string) string {
	return strings.Repeat("*", utf8.RuneCountInString(s))
}
