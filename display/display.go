// Package display defines the boundary between rofi's core (matching,
// modes, view state) and whatever paints pixels and delivers input: the
// compositor surface that holds the overlay window is an external
// collaborator, and no compositor-protocol implementation lives here. Only
// the interfaces live here, plus one headless reference implementation
// (simscreen) used by tests.
package display

import "github.com/rofi-go/rofi/theme"

// Cell is one character cell: a rune plus the style to paint it with.
type Cell struct {
	Rune  rune
	Style theme.Style
}

// ViewProxy is the drawing surface a Widget renders into: a clipped
// rectangle of an underlying Display that a widget composes its children
// onto, grounded on tcell's views.ViewPort pattern.
type ViewProxy interface {
	SetCell(x, y int, r rune, s theme.Style)
	Size() (w, h int)
	// Sub returns a ViewProxy clipped to the rectangle [x,y,w,h) within
	// this one, for a widget to hand to its children.
	Sub(x, y, w, h int) ViewProxy
}

// KeyEvent, ResizeEvent, MouseEvent and PasteEvent are the input shapes a
// Display delivers; the keybind package translates KeyEvent into actions.
type KeyEvent struct {
	Mod  uint8
	Key  int16
	Rune rune
}

type ResizeEvent struct {
	W, H int
}

// MouseEvent is a pointer-motion or click delivered by the backend.
type MouseEvent struct {
	X, Y   int
	Button uint8
}

// PasteEvent delivers a block of pasted text in one shot, distinct from
// individual KeyEvents.
type PasteEvent struct {
	Text string
}

// viewProxy clips a rectangle of an underlying Display, translating local
// coordinates before delegating (grounded on tcell/views.ViewPort).
type viewProxy struct {
	d          Display
	x, y, w, h int
}

// NewViewProxy returns the full-screen ViewProxy for d.
func NewViewProxy(d Display) ViewProxy {
	w, h := d.Size()
	return &viewProxy{d: d, w: w, h: h}
}

func (v *viewProxy) SetCell(x, y int, r rune, s theme.Style) {
	if x < 0 || y < 0 || x >= v.w || y >= v.h {
		return
	}
	v.d.SetCell(v.x+x, v.y+y, r, s)
}

func (v *viewProxy) Size() (int, int) { return v.w, v.h }

func (v *viewProxy) Sub(x, y, w, h int) ViewProxy {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > v.w {
		w = v.w - x
	}
	if y+h > v.h {
		h = v.h - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &viewProxy{d: v.d, x: v.x + x, y: v.y + y, w: w, h: h}
}

// Display is the minimal backend contract: initialize a drawing surface,
// accept a full-frame paint, and deliver input events. A real
// implementation talks to a compositor; that protocol work is out of
// scope here, so only display/simscreen implements this, for tests and the
// CLI's headless run.
type Display interface {
	Init() error
	Fini()
	Size() (w, h int)
	Clear()
	SetCell(x, y int, r rune, s theme.Style)
	Show()
	PollEvent() (interface{}, bool)
	PostEvent(ev interface{})
}
