package mode

import (
	"context"
	"strings"

	"github.com/rofi-go/rofi/logging"
	"github.com/rofi-go/rofi/match"
)

// combiChild is one sub-mode folded into a combi mode's merged list,
// alongside the [start, start+length) range it occupies there.
type combiChild struct {
	mode   Mode
	start  int
	length int
}

// Combi implements the "combi" mode: it concatenates the entry lists of
// several other modes into one merged list, and lets the user route a
// query at a single sub-mode with a "!<prefix>" marker, grounded on
// source/modes/combi.c combi_mode_result's '!' handling.
type Combi struct {
	children []combiChild
	log      *logging.Buffer

	// activeSwitcher is the child named by a leading "!<prefix>" in the
	// most recent PreprocessInput call, or nil. refilter always calls
	// PreprocessInput once (single-threaded) before farming TokenMatch
	// out to workers, so this is safe to read from any worker goroutine
	// during that pass.
	activeSwitcher Mode
}

// NewCombi builds a combi mode over children, in the given order. Self-
// reference (a child whose name collides with one already seen) is
// rejected by the caller via cycle detection at registration time — see
// BuildCombi.
func NewCombi(children []Mode, log *logging.Buffer) *Combi {
	c := &Combi{log: log}
	for _, m := range children {
		c.children = append(c.children, combiChild{mode: m})
	}
	return c
}

// BuildCombi resolves a "combi_modes" name list against a registry of
// already-constructed modes, rejecting names that would introduce a cycle
// via a DFS cycle check at construction time, stricter than the
// original's same-name-only guard (see DESIGN.md). selfName is the name
// the resulting combi mode will itself register under.
func BuildCombi(selfName string, names []string, registry map[string]Mode, log *logging.Buffer) (*Combi, error) {
	visited := map[string]bool{selfName: true}
	var children []Mode
	for _, name := range names {
		m, ok := registry[name]
		if !ok {
			log.Warn("combi: unknown switcher %q, skipping", name)
			continue
		}
		if visited[name] {
			log.Warn("combi: %q would introduce a cycle, skipping", name)
			continue
		}
		if inner, ok := m.(*Combi); ok {
			if err := inner.detectCycle(visited); err != nil {
				log.Warn("combi: skipping %q: %v", name, err)
				continue
			}
		}
		visited[name] = true
		children = append(children, m)
	}
	return NewCombi(children, log), nil
}

// detectCycle performs the DFS the original performs only shallowly (it
// checks only direct self-reference by name): a nested combi's children
// are walked transitively against the already-visited set.
func (c *Combi) detectCycle(visited map[string]bool) error {
	for _, ch := range c.children {
		name := ch.mode.Name()
		if visited[name] {
			return errCycle(name)
		}
		visited[name] = true
		if inner, ok := ch.mode.(*Combi); ok {
			if err := inner.detectCycle(visited); err != nil {
				return err
			}
		}
	}
	return nil
}

type errCycle string

func (e errCycle) Error() string { return "cycle through " + string(e) }

func (c *Combi) Name() string { return "combi" }

func (c *Combi) Init(ctx context.Context) error {
	offset := 0
	for i := range c.children {
		if err := c.children[i].mode.Init(ctx); err != nil {
			c.log.WarnErr(err, "combi child "+c.children[i].mode.Name())
			continue
		}
		c.children[i].start = offset
		c.children[i].length = c.children[i].mode.NumEntries()
		offset += c.children[i].length
	}
	return nil
}

func (c *Combi) NumEntries() int {
	total := 0
	for _, ch := range c.children {
		total += ch.length
	}
	return total
}

// locate finds which child owns global index idx, and its local offset.
func (c *Combi) locate(idx int) (combiChild, int, bool) {
	for _, ch := range c.children {
		if idx >= ch.start && idx < ch.start+ch.length {
			return ch, idx - ch.start, true
		}
	}
	return combiChild{}, 0, false
}

func (c *Combi) Display(idx int, wantText bool) (*string, StateFlags) {
	ch, local, ok := c.locate(idx)
	if !ok {
		return nil, StateNone
	}
	text, state := ch.mode.Display(local, wantText)
	if text == nil || len(c.children) < 2 {
		return text, state
	}
	prefixed := "[" + ch.mode.Name() + "] " + *text
	return &prefixed, state
}

// Completion re-prepends the active "!<prefix> " marker to whatever the
// inner mode suggests, reproducing the source's ambiguous behavior here
// verbatim rather than resolving it differently: it seems to prepend
// !<c> to whatever the inner mode suggests.
func (c *Combi) Completion(idx int) string {
	ch, local, ok := c.locate(idx)
	if !ok {
		return ""
	}
	text := ch.mode.Completion(local)
	if c.activeSwitcher != nil && c.activeSwitcher == ch.mode {
		return "!" + ch.mode.Name() + " " + text
	}
	return text
}

// TokenMatch restricts matching to the active "!<prefix>" switcher, if
// one is set: a leading !<prefix> in the input restricts matching to
// the inner mode whose display-name begins with <prefix>.
func (c *Combi) TokenMatch(tokens []match.TokenMatcher, idx int) bool {
	ch, local, ok := c.locate(idx)
	if !ok {
		return false
	}
	if c.activeSwitcher != nil && ch.mode != c.activeSwitcher {
		return false
	}
	return ch.mode.TokenMatch(tokens, local)
}

// targetSwitcher extracts a leading "!<prefix>" marker, returning the first
// child whose name begins with prefix (if any) and the remaining text with
// the marker stripped, grounded on combi_mode_result's bang_len <=
// mode_name_len prefix comparison (original_source/source/modes/combi.c:161-162).
func (c *Combi) targetSwitcher(input string) (Mode, string) {
	if !strings.HasPrefix(input, "!") {
		return nil, input
	}
	rest := input[1:]
	prefix, remainder, found := strings.Cut(rest, " ")
	if !found {
		prefix, remainder = rest, ""
	}
	for _, ch := range c.children {
		if strings.HasPrefix(ch.mode.Name(), prefix) {
			return ch.mode, remainder
		}
	}
	return nil, input
}

// PreprocessInput strips a leading "!<prefix>" marker and records the
// targeted child so TokenMatch/Completion can consult it for the
// remainder of this refilter pass.
func (c *Combi) PreprocessInput(raw string) string {
	target, rest := c.targetSwitcher(raw)
	c.activeSwitcher = target
	if rest != raw {
		return rest
	}
	return raw
}

func (c *Combi) Result(event AcceptEvent, input string, idx int) Result {
	ch, local, ok := c.locate(idx)
	if !ok {
		return Result{Kind: ResultExit}
	}
	return ch.mode.Result(event, input, local)
}

func (c *Combi) Reload() error {
	offset := 0
	for i := range c.children {
		if err := c.children[i].mode.Reload(); err != nil {
			c.log.WarnErr(err, "combi reload "+c.children[i].mode.Name())
		}
		c.children[i].start = offset
		c.children[i].length = c.children[i].mode.NumEntries()
		offset += c.children[i].length
	}
	return nil
}

func (c *Combi) Destroy() {
	for _, ch := range c.children {
		ch.mode.Destroy()
	}
}
