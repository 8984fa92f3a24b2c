// Package view implements ViewState: the per-invocation interactive state
// machine that owns the input buffer, selection, the filtered/sorted
// candidate list, and the refilter algorithm that farms matching out
// across a worker pool.
package view

import (
	"sort"
	"unicode/utf8"

	"github.com/rofi-go/rofi/config"
	"github.com/rofi-go/rofi/history"
	"github.com/rofi-go/rofi/keybind"
	"github.com/rofi-go/rofi/logging"
	"github.com/rofi-go/rofi/match"
	"github.com/rofi-go/rofi/mode"
	"github.com/rofi-go/rofi/score"
	"github.com/rofi-go/rofi/worker"
)

// Action names the symbolic input verbs ViewState.TriggerAction switches
// on; keybind.Table binds key combinations to these same strings.
const (
	ActionAccept       keybind.Action = "accept"
	ActionCancel       keybind.Action = "cancel"
	ActionRowTab       keybind.Action = "row-tab"
	ActionRowDown      keybind.Action = "row-down"
	ActionRowUp        keybind.Action = "row-up"
	ActionPageNext     keybind.Action = "page-next"
	ActionPagePrev     keybind.Action = "page-prev"
	ActionRowFirst     keybind.Action = "row-first"
	ActionRowLast      keybind.Action = "row-last"
	ActionModeNext     keybind.Action = "mode-next"
	ActionModePrevious keybind.Action = "mode-previous"
	ActionCustomInput  keybind.Action = "custom-input"
	ActionEntryDelete  keybind.Action = "entry-delete"
	ActionReload       keybind.Action = "reload"
	ActionBackspace    keybind.Action = "backspace"
	ActionDeleteChar   keybind.Action = "delete-char"
	ActionCursorLeft   keybind.Action = "cursor-left"
	ActionCursorRight  keybind.Action = "cursor-right"
	ActionCursorHome   keybind.Action = "cursor-home"
	ActionCursorEnd    keybind.Action = "cursor-end"
)

// Flags is ViewState's per-invocation display-mode bit set.
type Flags uint8

const (
	FlagNormal Flags = 0
	FlagPassword Flags = 1 << iota
	FlagNormalWindow
	FlagErrorDialog
	FlagIndicator
)

// Has reports whether bit is set.
func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// MenuReturn is ViewState.retv, the outcome the caller acts on once Quit
// is set.
type MenuReturn int

const (
	MenuCancel MenuReturn = iota
	MenuOk
	MenuNext
	MenuPrevious
	MenuCustomInput
	MenuEntryDelete
)

// ExitCode maps retv to the process exit code: 0 on Ok (or a mode-chain
// outcome that isn't a user cancel), 1 on cancel. Custom_1..Custom_19
// (exit codes 10..28) are not reachable through the Action vocabulary this
// package exposes — no concrete mode in this repo emits a ResultKind for
// them — so only the two codes below are produced.
func (r MenuReturn) ExitCode() int {
	if r == MenuCancel {
		return 1
	}
	return 0
}

// ComposeState models multi-keystroke input composition (dead keys,
// compose key): HandleText should only be called by the input loop once a
// sequence resolves to Idle with text in hand, or immediately for an
// ordinary single-codepoint key.
type ComposeState int

const (
	ComposeIdle ComposeState = iota
	ComposeComposing
	ComposeCancelled
)

const noSelection = ^uint32(0)

// FilteredView is the ordered sequence of candidate indices Refilter
// produces: every LineMap value is < N, values are unique, and
// len(LineMap) <= N. Distance is indexed by *original* candidate index
// (not by position in LineMap), since the sort step looks it up via
// "distance[line_map[k]]", and is nil unless sort-by-score is active.
type FilteredView struct {
	LineMap  []uint32
	Distance []int32
}

// Len returns the number of visible entries.
func (f *FilteredView) Len() int { return len(f.LineMap) }

// ViewState is the per-invocation interactive state. Only the owning
// InputLoop goroutine may call its methods; during Refilter, worker-pool
// goroutines read Input/tokens/Mode but never mutate ViewState directly.
type ViewState struct {
	cfg  config.Config
	pool *worker.Pool
	log  *logging.Buffer
	hist *history.History

	Mode      mode.Mode
	modeStack []mode.Mode

	numLines int

	Input   string
	Cursor  int
	Compose ComposeState

	tokens []match.TokenMatcher

	selected uint32
	filtered FilteredView

	Retv     MenuReturn
	Quit     bool
	reload   bool
	refilter bool

	Flags Flags

	// PageSize is how many rows ActionPageNext/ActionPagePrev move by;
	// the caller (InputLoop) keeps this in sync with the rendered
	// viewport height.
	PageSize int

	OverlayText *string

	Finalize func(*ViewState)

	lastAction keybind.Action
}

// Create builds a fresh ViewState over mode m, with cfg/pool/log/hist
// threaded explicitly as the application-context fields the source keeps
// as process globals.
func Create(m mode.Mode, cfg config.Config, pool *worker.Pool, log *logging.Buffer, hist *history.History, initialInput string, flags Flags, finalize func(*ViewState)) *ViewState {
	vs := &ViewState{
		cfg:      cfg,
		pool:     pool,
		log:      log,
		hist:     hist,
		Mode:     m,
		Input:    initialInput,
		Cursor:   len(initialInput),
		Flags:    flags,
		PageSize: 10,
		Finalize: finalize,
		selected: noSelection,
		reload:   true,
		refilter: true,
	}
	return vs
}

// NumLines returns Mode.NumEntries() as cached at the last reload.
func (vs *ViewState) NumLines() int { return vs.numLines }

// Filtered returns the current filtered/sorted view.
func (vs *ViewState) Filtered() *FilteredView { return &vs.filtered }

// Selected returns the selection's position within the filtered view, or
// -1 when nothing is selected.
func (vs *ViewState) Selected() int {
	if vs.selected == noSelection {
		return -1
	}
	return int(vs.selected)
}

// NeedsRefilter reports whether a refilter pass is pending.
func (vs *ViewState) NeedsRefilter() bool { return vs.refilter }

// RefilterDeferred reports whether incremental per-keystroke filtering
// should be skipped because the candidate count exceeds
// config.RefilterTimeoutLimit: an optimisation InputLoop may honor by only
// calling Refilter on explicit accept, not a correctness requirement of
// Refilter itself.
func (vs *ViewState) RefilterDeferred() bool {
	return vs.cfg.RefilterTimeoutLimit > 0 && vs.numLines > vs.cfg.RefilterTimeoutLimit
}

// HandleText inserts user-visible text at the cursor and marks a refilter
// pending.
func (vs *ViewState) HandleText(s string) {
	if s == "" {
		return
	}
	vs.Input = vs.Input[:vs.Cursor] + s + vs.Input[vs.Cursor:]
	vs.Cursor += len(s)
	vs.refilter = true
}

// SetSelected moves the selection to position i within the filtered view,
// clamped to [0, len) or to noSelection when the view is empty.
func (vs *ViewState) SetSelected(i int) {
	n := vs.filtered.Len()
	if n == 0 {
		vs.selected = noSelection
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	vs.selected = uint32(i)
}

// SelectByDisplay selects the first visible entry whose display string
// exactly matches text, grounded on view.c's rofi_view_set_selected_line
// fallback. Call it after a Refilter so the filtered view is populated.
func (vs *ViewState) SelectByDisplay(text string) bool {
	for i, idx := range vs.filtered.LineMap {
		disp, _ := vs.Mode.Display(int(idx), true)
		if disp != nil && *disp == text {
			vs.selected = uint32(i)
			return true
		}
	}
	return false
}

// HandleMouseMotion receives pointer motion from InputLoop. It has no
// effect: ViewState holds no pointer state, and the motion is not passed
// on to the widget tree.
func (vs *ViewState) HandleMouseMotion(x, y int) {}

// SetOverlay shows (text != nil) or hides (text == nil) the floating
// overlay label.
func (vs *ViewState) SetOverlay(text *string) { vs.OverlayText = text }

// ReloadRequest sets reload, coalesced by InputLoop's 100 ms debounce
// timer.
func (vs *ViewState) ReloadRequest() {
	vs.reload = true
	vs.refilter = true
}

// SwitchMode pushes the current mode onto the stack and switches to
// next.
func (vs *ViewState) SwitchMode(next mode.Mode) {
	vs.modeStack = append(vs.modeStack, vs.Mode)
	vs.Mode = next
	vs.selected = noSelection
	vs.reload = true
	vs.refilter = true
}

// PopMode reverts to the previous mode on the stack, if any.
func (vs *ViewState) PopMode() bool {
	if len(vs.modeStack) == 0 {
		return false
	}
	vs.Mode = vs.modeStack[len(vs.modeStack)-1]
	vs.modeStack = vs.modeStack[:len(vs.modeStack)-1]
	vs.selected = noSelection
	vs.reload = true
	vs.refilter = true
	return true
}

// Refilter runs the filter/sort algorithm exactly once and clears the
// pending flag; calling it with no pending refilter is a no-op.
func (vs *ViewState) Refilter() {
	if !vs.refilter {
		return
	}
	if vs.reload {
		vs.numLines = vs.Mode.NumEntries()
		vs.reload = false
	}
	n := vs.numLines

	// PreprocessInput always runs, even on the empty-input fast path,
	// since a stateful mode (combi's "!<prefix>" tracking) needs the
	// side effect to reset consistently as input is deleted back to
	// empty.
	preprocessed := vs.Mode.PreprocessInput(vs.Input)

	if vs.Input == "" {
		lineMap := make([]uint32, n)
		for i := 0; i < n; i++ {
			lineMap[i] = uint32(i)
		}
		vs.filtered.LineMap = lineMap
		vs.filtered.Distance = nil
		vs.tokens = nil
	} else {
		vs.tokens = match.Tokenize(preprocessed, vs.cfg)
		vs.filtered.LineMap = vs.runParallelFilter(n)
	}

	if vs.cfg.Sort && vs.filtered.Distance != nil && vs.filtered.Len() > 0 {
		vs.sortByDistance()
	}

	vs.reconcileSelection()

	if vs.cfg.AutoSelect && vs.filtered.Len() == 1 && n > 1 {
		vs.Retv = MenuOk
		vs.Quit = true
	}

	vs.refilter = false
}

// reconcileSelection restores the NoSelection/Selected(i) invariant after
// the filtered view has changed shape: a refilter finishing with len>0
// over a previous NoSelection selects row 0 unless config.ellipsize_start
// is set.
func (vs *ViewState) reconcileSelection() {
	n := vs.filtered.Len()
	switch {
	case n == 0:
		vs.selected = noSelection
	case vs.selected == noSelection:
		if !vs.cfg.EllipsizeStart {
			vs.selected = 0
		}
	case int(vs.selected) >= n:
		vs.selected = uint32(n - 1)
	}
}

// runParallelFilter partitions [0,n) into chunks, farms them to the
// worker pool, and compacts the per-chunk matches into a contiguous,
// index-ordered prefix. Each chunk also computes its slice of Distance
// when sorting is enabled.
func (vs *ViewState) runParallelFilter(n int) []uint32 {
	tokens := vs.tokens
	m := vs.Mode
	input := vs.Input
	caseSensitive := vs.cfg.CaseSensitive
	sortEnabled := vs.cfg.Sort
	fzfSort := sortEnabled && vs.cfg.SortingMethod == config.SortFZF

	chunks := worker.Chunks(n, 500, vs.pool.Size())
	matched := make([][]uint32, len(chunks))
	dist := make([][]int32, len(chunks))

	fns := make([]func(), len(chunks))
	for ci, c := range chunks {
		ci, lo, hi := ci, c[0], c[1]
		fns[ci] = func() {
			localMatched := make([]uint32, 0, hi-lo)
			var localDist []int32
			if sortEnabled {
				localDist = make([]int32, 0, hi-lo)
			}
			for idx := lo; idx < hi; idx++ {
				if !m.TokenMatch(tokens, idx) {
					continue
				}
				localMatched = append(localMatched, uint32(idx))
				if sortEnabled {
					completion := m.Completion(idx)
					if fzfSort {
						localDist = append(localDist, score.Score(input, completion, caseSensitive))
					} else {
						localDist = append(localDist, score.Levenshtein(input, completion, caseSensitive))
					}
				}
			}
			matched[ci] = localMatched
			dist[ci] = localDist
		}
	}
	vs.pool.Run(fns)

	total := 0
	for _, r := range matched {
		total += len(r)
	}
	lineMap := make([]uint32, 0, total)
	if sortEnabled {
		vs.filtered.Distance = make([]int32, n)
	} else {
		vs.filtered.Distance = nil
	}
	for ci, r := range matched {
		for k, idx := range r {
			lineMap = append(lineMap, idx)
			if sortEnabled {
				vs.filtered.Distance[idx] = dist[ci][k]
			}
		}
	}
	return lineMap
}

// sortByDistance stable-sorts the filtered prefix by Distance ascending;
// stability preserves original-index tie-breaking.
func (vs *ViewState) sortByDistance() {
	lm := vs.filtered.LineMap
	dist := vs.filtered.Distance
	sort.SliceStable(lm, func(i, j int) bool {
		return dist[lm[i]] < dist[lm[j]]
	})
}

// TriggerAction applies a bound Action to the view, implementing the
// selection state machine for the row-navigation actions.
func (vs *ViewState) TriggerAction(action keybind.Action) {
	switch action {
	case ActionRowDown:
		vs.rowDown()
	case ActionRowUp:
		vs.rowUp()
	case ActionPageNext:
		vs.page(1)
	case ActionPagePrev:
		vs.page(-1)
	case ActionRowFirst:
		vs.SetSelected(0)
	case ActionRowLast:
		vs.SetSelected(vs.filtered.Len() - 1)
	case ActionRowTab:
		vs.rowTab()
	case ActionAccept:
		vs.accept()
	case ActionCancel:
		vs.Retv = MenuCancel
		vs.Quit = true
	case ActionCustomInput:
		vs.customInput()
	case ActionEntryDelete:
		vs.entryDelete()
	case ActionReload:
		vs.ReloadRequest()
	case ActionModeNext:
		vs.Retv = MenuNext
		vs.Quit = true
	case ActionModePrevious:
		vs.Retv = MenuPrevious
		vs.Quit = true
	case ActionBackspace:
		vs.backspace()
	case ActionDeleteChar:
		vs.deleteChar()
	case ActionCursorLeft:
		vs.moveCursor(-1)
	case ActionCursorRight:
		vs.moveCursor(1)
	case ActionCursorHome:
		vs.Cursor = 0
	case ActionCursorEnd:
		vs.Cursor = len(vs.Input)
	}
	vs.lastAction = action
}

func (vs *ViewState) rowDown() {
	n := vs.filtered.Len()
	if n == 0 {
		return
	}
	if vs.selected == noSelection {
		vs.selected = 0
		return
	}
	if int(vs.selected) == n-1 {
		if vs.cfg.Cycle {
			vs.selected = 0
		}
		return
	}
	vs.selected++
}

func (vs *ViewState) rowUp() {
	n := vs.filtered.Len()
	if n == 0 {
		return
	}
	if vs.selected == noSelection {
		vs.selected = uint32(n - 1)
		return
	}
	if vs.selected == 0 {
		if vs.cfg.Cycle {
			vs.selected = uint32(n - 1)
		}
		return
	}
	vs.selected--
}

func (vs *ViewState) page(dir int) {
	n := vs.filtered.Len()
	if n == 0 {
		return
	}
	size := vs.PageSize
	if size <= 0 {
		size = 10
	}
	if vs.selected == noSelection {
		vs.selected = 0
		return
	}
	next := int(vs.selected) + dir*size
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	vs.selected = uint32(next)
}

// rowTab implements the RowTab transition: accept the sole visible entry,
// cycle to the next mode on a second consecutive RowTab over an empty
// view, else behave like RowDown.
func (vs *ViewState) rowTab() {
	n := vs.filtered.Len()
	if n == 1 {
		vs.accept()
		return
	}
	if n == 0 && vs.lastAction == ActionRowTab {
		vs.Retv = MenuNext
		vs.Quit = true
		return
	}
	vs.rowDown()
}

// accept implements the AcceptEntry transition: call Mode.Result for the
// selected entry, or fall through to CustomInput when nothing is
// selected.
func (vs *ViewState) accept() {
	if vs.selected == noSelection {
		vs.customInput()
		return
	}
	idx := int(vs.filtered.LineMap[vs.selected])
	res := vs.Mode.Result(mode.EventOk, vs.Input, idx)
	vs.applyResult(res)
	if res.Kind == mode.ResultOk && vs.hist != nil {
		if err := vs.hist.PrependOrPromote(vs.Mode.Completion(idx)); err != nil && vs.log != nil {
			vs.log.WarnErr(err, "history write")
		}
	}
}

func (vs *ViewState) customInput() {
	res := vs.Mode.Result(mode.EventCustomInput, vs.Input, -1)
	vs.applyResult(res)
}

func (vs *ViewState) entryDelete() {
	if vs.selected == noSelection {
		return
	}
	idx := int(vs.filtered.LineMap[vs.selected])
	res := vs.Mode.Result(mode.EventEntryDelete, vs.Input, idx)
	vs.applyResult(res)
	vs.ReloadRequest()
}

// applyResult translates a mode.Result into ViewState's retv/quit/reload
// fields.
func (vs *ViewState) applyResult(res mode.Result) {
	switch res.Kind {
	case mode.ResultExit:
		vs.Retv = MenuCancel
		vs.Quit = true
	case mode.ResultNext:
		vs.Retv = MenuNext
		vs.Quit = true
	case mode.ResultPrevious:
		vs.Retv = MenuPrevious
		vs.Quit = true
	case mode.ResultReload:
		vs.ReloadRequest()
	case mode.ResultOk:
		vs.Retv = MenuOk
		vs.Quit = true
	case mode.ResultEntryDelete:
		vs.ReloadRequest()
	case mode.ResultSwitchTo:
		vs.SwitchMode(res.Next)
	case mode.ResultCustomInput:
		vs.Retv = MenuCustomInput
		vs.Quit = true
	}
}

func (vs *ViewState) backspace() {
	if vs.Cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(vs.Input[:vs.Cursor])
	vs.Input = vs.Input[:vs.Cursor-size] + vs.Input[vs.Cursor:]
	vs.Cursor -= size
	vs.refilter = true
}

func (vs *ViewState) deleteChar() {
	if vs.Cursor >= len(vs.Input) {
		return
	}
	_, size := utf8.DecodeRuneInString(vs.Input[vs.Cursor:])
	vs.Input = vs.Input[:vs.Cursor] + vs.Input[vs.Cursor+size:]
	vs.refilter = true
}

func (vs *ViewState) moveCursor(dir int) {
	if dir < 0 {
		if vs.Cursor == 0 {
			return
		}
		_, size := utf8.DecodeLastRuneInString(vs.Input[:vs.Cursor])
		vs.Cursor -= size
		return
	}
	if vs.Cursor >= len(vs.Input) {
		return
	}
	_, size := utf8.DecodeRuneInString(vs.Input[vs.Cursor:])
	vs.Cursor += size
}
