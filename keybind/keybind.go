// Package keybind implements KeyBindings: parsing "mod+mod+key" binding
// strings into a (mask, keysym) table and resolving incoming key events
// to actions. The (mask, key) vocabulary mirrors gdamore/tcell's
// ModMask/Key split rather than X11 keysyms directly, since the Display
// backend is the layer responsible for translating whatever windowing
// system delivers into this shape.
package keybind

import (
	"strings"

	"github.com/pkg/errors"
)

// Mod is a bitmask of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

const ModNone Mod = 0

// Key identifies a non-printable key, or KeyRune for any printable rune
// (whose value is carried alongside in a KeyEvent).
type Key int16

const (
	KeyRune Key = iota
	KeyEnter
	KeyEsc
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyF1
)

// KeyEvent is the normalized input this package matches against.
type KeyEvent struct {
	Mod  Mod
	Key  Key
	Rune rune // meaningful only when Key == KeyRune
}

// Action is an opaque action identifier; the input loop owns the actual
// enum of actions this table's (mask, keysym) pairs resolve to.
type Action string

var namedKeys = map[string]Key{
	"enter": KeyEnter, "return": KeyEnter,
	"escape": KeyEsc, "esc": KeyEsc,
	"tab":       KeyTab,
	"backtab":   KeyBacktab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPgUp,
	"pagedown":  KeyPgDn,
	"f1":        KeyF1,
}

var namedMods = map[string]Mod{
	"shift": ModShift,
	"ctrl":  ModCtrl, "control": ModCtrl,
	"alt": ModAlt, "meta": ModMeta, "super": ModMeta,
}

// Parse compiles a binding string of the form "mod+mod+key" (e.g.
// "Ctrl+Shift+p", "Escape") into the (Mod, Key[, Rune]) it denotes.
func Parse(binding string) (Mod, Key, rune, error) {
	parts := strings.Split(binding, "+")
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == "") {
		return 0, 0, 0, errors.Errorf("empty key binding")
	}
	var mod Mod
	last := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	for _, p := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(p))
		m, ok := namedMods[name]
		if !ok {
			return 0, 0, 0, errors.Errorf("unknown modifier %q in binding %q", p, binding)
		}
		mod |= m
	}
	if k, ok := namedKeys[last]; ok {
		return mod, k, 0, nil
	}
	runes := []rune(parts[len(parts)-1])
	if len(runes) != 1 {
		return 0, 0, 0, errors.Errorf("unparseable key %q in binding %q", parts[len(parts)-1], binding)
	}
	return mod, KeyRune, runes[0], nil
}

type tableKey struct {
	mod  Mod
	key  Key
	rune rune // 0 unless key == KeyRune
}

// Table maps (mask, keysym) pairs to actions.
type Table struct {
	entries map[tableKey]Action
}

// NewTable builds a Table from binding-string -> Action pairs, skipping
// (and reporting) any binding string that fails to parse.
func NewTable(bindings map[string]Action) (*Table, []error) {
	t := &Table{entries: make(map[tableKey]Action, len(bindings))}
	var errs []error
	for binding, action := range bindings {
		mod, key, r, err := Parse(binding)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.Bind(mod, key, r, action)
	}
	return t, errs
}

// Bind registers a single (mod, key[, rune]) -> action mapping, overwriting
// any existing binding for that combination.
func (t *Table) Bind(mod Mod, key Key, r rune, action Action) {
	if key != KeyRune {
		r = 0
	}
	t.entries[tableKey{mod: mod, key: key, rune: r}] = action
}

// Resolve looks up the action bound to ev, if any.
func (t *Table) Resolve(ev KeyEvent) (Action, bool) {
	r := ev.Rune
	if ev.Key != KeyRune {
		r = 0
	}
	a, ok := t.entries[tableKey{mod: ev.Mod, key: ev.Key, rune: r}]
	return a, ok
}

// Default returns rofi's built-in binding set, expressed as the symbolic
// Action names the view/input packages switch on (view.Action* constants).
func Default() map[string]Action {
	return map[string]Action{
		"Enter":       "accept",
		"Escape":      "cancel",
		"Tab":         "row-tab",
		"Down":        "row-down",
		"Up":          "row-up",
		"Ctrl+n":      "row-down",
		"Ctrl+p":      "row-up",
		"PageDown":    "page-next",
		"PageUp":      "page-prev",
		"Home":        "row-first",
		"End":         "row-last",
		"Shift+Tab":   "mode-previous",
		"Ctrl+Tab":    "mode-next",
		"Ctrl+Return": "custom-input",
		"Ctrl+Delete": "entry-delete",
		"Ctrl+r":      "reload",
	}
}
