// Package mode implements the Mode abstraction: a uniform contract over
// heterogeneous entry sources (run, ssh, drun, window, combi, script),
// plus the concrete built-in modes.
package mode

import (
	"context"

	"github.com/rofi-go/rofi/match"
)

// StateFlags is the set of display-state bits an entry may carry.
type StateFlags uint8

const (
	StateNone StateFlags = 0
	// StateUrgent marks an entry that demands attention (e.g. a window
	// requesting urgency, or a script's "urgent" control line).
	StateUrgent StateFlags = 1 << iota
	StateActive
	StateSelected
	StateMarkup
)

func (f StateFlags) Has(bit StateFlags) bool { return f&bit != 0 }

// AcceptEvent identifies which user action triggered Mode.Result.
type AcceptEvent int

const (
	EventOk AcceptEvent = iota
	EventCustomInput
	EventEntryDelete
	EventCustomKey1
)

// ResultKind is the outcome of Mode.Result.
type ResultKind int

const (
	ResultExit ResultKind = iota
	ResultNext
	ResultPrevious
	ResultReload
	ResultOk
	ResultEntryDelete
	ResultSwitchTo
	ResultCustomInput
)

// Result carries a ResultKind plus, for ResultSwitchTo, the mode to
// switch into.
type Result struct {
	Kind ResultKind
	Next Mode
}

// Mode is the per-source entry contract every concrete mode implements.
// All strings crossing this boundary are owned by the receiver —
// implementations return freshly-allocated strings rather than borrowed
// views.
type Mode interface {
	// Name is the mode's registered name, used for combi's "!<prefix>"
	// routing and CLI -show/-modi selection.
	Name() string

	Init(ctx context.Context) error
	NumEntries() int

	// Display returns the entry's display string (nil if wantText is
	// false and the caller only needs the state flags) and its state.
	Display(idx int, wantText bool) (*string, StateFlags)

	// Completion returns the canonical text substituted into the input
	// box on tab-completion.
	Completion(idx int) string

	TokenMatch(tokens []match.TokenMatcher, idx int) bool

	Result(event AcceptEvent, input string, idx int) Result

	// Reload re-fetches the entry list; it may change NumEntries.
	Reload() error

	// PreprocessInput lets a mode rewrite the raw input buffer before
	// tokenization (e.g. combi's "!<prefix>" stripping).
	PreprocessInput(raw string) string

	Destroy()
}

// staticEntry is the concrete Entry representation used by the built-in
// list-backed modes (run, ssh, drun, window): a display string, optional
// completion override, and state flags.
type staticEntry struct {
	Display    string
	Completion string
	State      StateFlags
}

// staticMode implements Mode over a fixed, pre-materialised entry list —
// the shared shape of run/ssh/drun/window, each of which materialises its
// candidate list at init.
type staticMode struct {
	name    string
	entries []staticEntry
	fetch   func(ctx context.Context) ([]staticEntry, error)
	accept  func(input string, e staticEntry) Result
}

func newStaticMode(name string, fetch func(ctx context.Context) ([]staticEntry, error), accept func(string, staticEntry) Result) *staticMode {
	return &staticMode{name: name, fetch: fetch, accept: accept}
}

func (m *staticMode) Name() string { return m.name }

func (m *staticMode) Init(ctx context.Context) error {
	entries, err := m.fetch(ctx)
	if err != nil {
		return err
	}
	m.entries = entries
	return nil
}

func (m *staticMode) NumEntries() int { return len(m.entries) }

func (m *staticMode) Display(idx int, wantText bool) (*string, StateFlags) {
	e := m.entries[idx]
	if !wantText {
		return nil, e.State
	}
	s := e.Display
	return &s, e.State
}

func (m *staticMode) Completion(idx int) string {
	e := m.entries[idx]
	if e.Completion != "" {
		return e.Completion
	}
	return e.Display
}

func (m *staticMode) TokenMatch(tokens []match.TokenMatcher, idx int) bool {
	return match.Matches(tokens, m.entries[idx].Display)
}

func (m *staticMode) Result(event AcceptEvent, input string, idx int) Result {
	switch event {
	case EventOk:
		return m.accept(input, m.entries[idx])
	case EventCustomInput:
		return m.accept(input, staticEntry{Display: input})
	case EventEntryDelete:
		if idx >= 0 && idx < len(m.entries) {
			m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
		}
		return Result{Kind: ResultEntryDelete}
	default:
		return Result{Kind: ResultExit}
	}
}

func (m *staticMode) Reload() error {
	entries, err := m.fetch(context.Background())
	if err != nil {
		return err
	}
	m.entries = entries
	return nil
}

func (m *staticMode) PreprocessInput(raw string) string { return raw }

func (m *staticMode) Destroy() { m.entries = nil }
