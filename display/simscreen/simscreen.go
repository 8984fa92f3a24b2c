// Package simscreen is an in-memory headless Display, adapted from
// gdamore/tcell's SimulationScreen: it records what would have been
// painted and lets tests inject synthetic input, without talking to any
// real compositor.
package simscreen

import (
	"sync"

	"github.com/rofi-go/rofi/display"
	"github.com/rofi-go/rofi/theme"
)

// Screen is a headless Display backed by an in-memory cell buffer.
type Screen struct {
	mu     sync.Mutex
	w, h   int
	cells  []display.Cell
	events chan interface{}
}

// New returns a Screen of the given size with an empty event queue.
func New(w, h int) *Screen {
	s := &Screen{w: w, h: h, events: make(chan interface{}, 64)}
	s.cells = make([]display.Cell, w*h)
	return s
}

func (s *Screen) Init() error { return nil }
func (s *Screen) Fini()       {}

func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		s.cells[i] = display.Cell{Rune: ' '}
	}
}

func (s *Screen) SetCell(x, y int, r rune, st theme.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.cells[y*s.w+x] = display.Cell{Rune: r, Style: st}
}

func (s *Screen) Show() {}

// PollEvent dequeues the next injected event, blocking until one arrives
// or the queue is closed.
func (s *Screen) PollEvent() (interface{}, bool) {
	ev, ok := <-s.events
	return ev, ok
}

func (s *Screen) PostEvent(ev interface{}) {
	s.events <- ev
}

// InjectKey pushes a synthetic key event onto the queue, for tests driving
// the input loop without a real terminal or compositor.
func (s *Screen) InjectKey(mod uint8, key int16, r rune) {
	s.events <- display.KeyEvent{Mod: mod, Key: key, Rune: r}
}

// InjectText pushes a synthetic paste event onto the queue.
func (s *Screen) InjectText(text string) {
	s.events <- display.PasteEvent{Text: text}
}

// InjectMouse pushes a synthetic mouse-motion event onto the queue.
func (s *Screen) InjectMouse(x, y int, button uint8) {
	s.events <- display.MouseEvent{X: x, Y: y, Button: button}
}

// Resize changes the logical size and enqueues a ResizeEvent, mirroring
// SimulationScreen.Resize.
func (s *Screen) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.cells = make([]display.Cell, w*h)
	s.mu.Unlock()
	s.events <- display.ResizeEvent{W: w, H: h}
}

// Contents returns a snapshot of the cell buffer plus its dimensions, for
// assertions in tests.
func (s *Screen) Contents() ([]display.Cell, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]display.Cell, len(s.cells))
	copy(out, s.cells)
	return out, s.w, s.h
}

// Close closes the event queue, unblocking any pending PollEvent.
func (s *Screen) Close() {
	close(s.events)
}
