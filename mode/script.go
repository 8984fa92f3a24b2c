package mode

import (
	"context"
	"strconv"
	"strings"

	"github.com/rofi-go/rofi/executor"
	"github.com/rofi-go/rofi/match"
)

// Script implements the "script" mode: entries come from one external
// program's stdout, and accepting an entry (or typing custom input) re-runs
// the program with that text as its argument, optionally replacing the list
// in place. The script's output may carry control lines of the form
// "\0<tag>\x1f<value>" setting prompt, message, markup-rows, urgent,
// active, delim, no-custom and use-hot-keys, grounded on
// source/dialogs/script.c's execute_generator/get_script_output plus the
// mode-plugin control-line protocol named in the external interface
// (prompt/message are sticky strings, markup-rows/no-custom/use-hot-keys
// are sticky booleans, urgent/active are 0-based row indices scoped to the
// current batch, delim splits a row into display text and a hidden data
// field substituted into the next invocation instead of the display text).
type Script struct {
	name    string
	command string
	exec    *executor.Executor
	entries []staticEntry

	prompt     string
	message    string
	markupRows bool
	delim      string
	noCustom   bool
	useHotkeys bool
}

// NewScript builds a script mode named name that runs command with no
// arguments on Init, and re-runs "command <arg>" quoted shell-safe on
// accept/custom-input, replacing its entry list with the new output.
func NewScript(name, command string, exec *executor.Executor) *Script {
	return &Script{name: name, command: command, exec: exec}
}

func (s *Script) Name() string { return s.name }

func (s *Script) Init(ctx context.Context) error {
	lines, err := executor.Generate(ctx, s.command)
	if err != nil {
		return err
	}
	s.entries = s.parseOutput(lines)
	return nil
}

func (s *Script) NumEntries() int { return len(s.entries) }

func (s *Script) Display(idx int, wantText bool) (*string, StateFlags) {
	e := s.entries[idx]
	if !wantText {
		return nil, e.State
	}
	text := e.Display
	return &text, e.State
}

// Completion returns the value the next invocation should substitute:
// the row's hidden data field if a "delim" control line split one off,
// otherwise the display text itself.
func (s *Script) Completion(idx int) string {
	e := s.entries[idx]
	if e.Completion != "" {
		return e.Completion
	}
	return e.Display
}

func (s *Script) TokenMatch(tokens []match.TokenMatcher, idx int) bool {
	return match.Matches(tokens, s.entries[idx].Display)
}

// Reload keeps the current entry list and does not run the script; the
// list is replaced only by Init and by the re-run that Result performs.
func (s *Script) Reload() error { return nil }

func (s *Script) PreprocessInput(raw string) string { return raw }

func (s *Script) Destroy() { s.entries = nil }

// Prompt returns the prompt text the script requested via a "\0prompt"
// control line, or "" if the script never sent one.
func (s *Script) Prompt() string { return s.prompt }

// Message returns the message text requested via a "\0message" control
// line, or "" if the script never sent one.
func (s *Script) Message() string { return s.message }

// MarkupRows reports whether a "\0markup-rows\x1ftrue" control line is in
// effect.
func (s *Script) MarkupRows() bool { return s.markupRows }

// NoCustom reports whether a "\0no-custom\x1ftrue" control line has
// disabled free-text custom input for this script.
func (s *Script) NoCustom() bool { return s.noCustom }

// UseHotkeys reports whether a "\0use-hot-keys\x1ftrue" control line has
// requested that EventCustomKey1..N reach Result instead of being consumed
// as plain accept/cancel actions.
func (s *Script) UseHotkeys() bool { return s.useHotkeys }

// parseOutput splits a script's raw output lines into control-line
// directives and entry rows. Non-UTF-8 bytes are replaced with U+FFFD
// before either is interpreted.
func (s *Script) parseOutput(lines []string) []staticEntry {
	urgent := map[int]bool{}
	active := map[int]bool{}
	rows := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.ToValidUTF8(raw, "�")
		tag, value, ok := cutControlLine(line)
		if !ok {
			rows = append(rows, line)
			continue
		}
		switch tag {
		case "prompt":
			s.prompt = value
		case "message":
			s.message = value
		case "markup-rows":
			s.markupRows = value == "true"
		case "delim":
			s.delim = value
		case "no-custom":
			s.noCustom = value == "true"
		case "use-hot-keys":
			s.useHotkeys = value == "true"
		case "urgent":
			markIndices(urgent, value)
		case "active":
			markIndices(active, value)
		}
	}

	entries := make([]staticEntry, len(rows))
	for i, row := range rows {
		display, data := row, ""
		if s.delim != "" {
			if before, after, found := strings.Cut(row, s.delim); found {
				display, data = before, after
			}
		}
		state := StateNone
		if s.markupRows {
			state |= StateMarkup
		}
		if urgent[i] {
			state |= StateUrgent
		}
		if active[i] {
			state |= StateActive
		}
		entries[i] = staticEntry{Display: display, Completion: data, State: state}
	}
	return entries
}

// cutControlLine splits a "\0<tag>\x1f<value>" control line, reporting
// ok=false for an ordinary entry row.
func cutControlLine(line string) (tag, value string, ok bool) {
	if !strings.HasPrefix(line, "\x00") {
		return "", "", false
	}
	tag, value, found := strings.Cut(line[1:], "\x1f")
	if !found {
		return "", "", false
	}
	return tag, value, true
}

// markIndices parses a comma-separated list of 0-based row indices into set.
func markIndices(set map[int]bool, csv string) {
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			set[n] = true
		}
	}
}

// rerun executes the script with selection as its argument and replaces
// the entry list with whatever it prints, implementing the reload loop
// from script_mode_result.
func (s *Script) rerun(ctx context.Context, selection string) {
	lines, err := executor.Generate(ctx, s.command+" "+shellQuote(selection))
	if err != nil {
		return
	}
	s.entries = s.parseOutput(lines)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (s *Script) Result(event AcceptEvent, input string, idx int) Result {
	switch event {
	case EventOk:
		if idx < 0 || idx >= len(s.entries) {
			return Result{Kind: ResultExit}
		}
		s.rerun(context.Background(), s.Completion(idx))
		return Result{Kind: ResultReload}
	case EventCustomInput:
		if s.noCustom {
			return Result{Kind: ResultExit}
		}
		if strings.TrimSpace(input) == "" {
			return Result{Kind: ResultExit}
		}
		s.rerun(context.Background(), input)
		return Result{Kind: ResultReload}
	default:
		return Result{Kind: ResultExit}
	}
}
