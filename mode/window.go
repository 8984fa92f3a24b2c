package mode

import (
	"context"

	"github.com/rofi-go/rofi/executor"
)

// WindowInfo is one open window as reported by a WindowSource. Window-
// manager IPC is a fire-and-forget collaborator, so this package
// only defines the shape it consumes, not how it is obtained).
type WindowInfo struct {
	ID     string // opaque window handle, passed back to Activate verbatim
	Title  string
	Class  string
	Urgent bool
}

// WindowSource abstracts whatever compositor/WM integration enumerates and
// activates windows. That compositor-protocol work is out of scope here;
// production builds supply a real implementation,
// e.g. backed by an i3 IPC socket or an EWMH client list).
type WindowSource interface {
	List(ctx context.Context) ([]WindowInfo, error)
	Activate(id string) error
}

// NoWindowSource is a WindowSource that reports no open windows, used when
// rofi runs outside of any supported windowing environment.
type NoWindowSource struct{}

func (NoWindowSource) List(ctx context.Context) ([]WindowInfo, error) { return nil, nil }
func (NoWindowSource) Activate(id string) error                       { return nil }

// NewWindow builds the "window" mode: open windows enumerated through the
// injected WindowSource, sourced from the display backend. Accepting an
// entry asks the source to focus that window rather than
// launching a new process.
func NewWindow(src WindowSource, exec *executor.Executor) Mode {
	if src == nil {
		src = NoWindowSource{}
	}
	ids := make(map[int]string)
	return newStaticMode("window", func(ctx context.Context) ([]staticEntry, error) {
		wins, err := src.List(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]staticEntry, 0, len(wins))
		for i, w := range wins {
			state := StateNone
			if w.Urgent {
				state = StateUrgent
			}
			ids[i] = w.ID
			entries = append(entries, staticEntry{Display: w.Title + " (" + w.Class + ")", Completion: w.Title, State: state})
		}
		return entries, nil
	}, func(input string, e staticEntry) Result {
		return Result{Kind: ResultOk}
	}).withActivate(src, ids)
}

// activatingMode wraps staticMode's Result to call WindowSource.Activate
// with the id recorded for the selected index, rather than launching a
// fresh process.
type activatingMode struct {
	*staticMode
	src WindowSource
	ids map[int]string
}

func (m *staticMode) withActivate(src WindowSource, ids map[int]string) Mode {
	return &activatingMode{staticMode: m, src: src, ids: ids}
}

func (m *activatingMode) Result(event AcceptEvent, input string, idx int) Result {
	if event == EventOk {
		if id, ok := m.ids[idx]; ok {
			if err := m.src.Activate(id); err != nil {
				return Result{Kind: ResultExit}
			}
			return Result{Kind: ResultOk}
		}
	}
	return m.staticMode.Result(event, input, idx)
}
