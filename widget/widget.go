// Package widget provides the minimal composable draw-tree ViewState
// renders through (a single text line, a list of lines, a vertical stack),
// grounded on tcell's views.Widget/AppWidget pattern but trimmed to what
// a non-interactive text UI needs.
package widget

import (
	"github.com/mattn/go-runewidth"
	"github.com/rofi-go/rofi/display"
	"github.com/rofi-go/rofi/theme"
)

// Widget draws itself into a ViewProxy at its assigned size.
type Widget interface {
	Draw(v display.ViewProxy)
	// PreferredHeight returns how many rows this widget wants, given a
	// width; -1 means "as many as available".
	PreferredHeight(width int) int
}

// TextLine renders a single line of text with ellipsis truncation using
// go-runewidth for display-column accounting so wide (CJK) runes don't
// overrun the cell grid.
type TextLine struct {
	Text          string
	Style         theme.Style
	EllipsizeLeft bool
}

func (t *TextLine) PreferredHeight(width int) int { return 1 }

func (t *TextLine) Draw(v display.ViewProxy) {
	w, _ := v.Size()
	if w <= 0 {
		return
	}
	text := Ellipsize(t.Text, w, t.EllipsizeLeft)
	x := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			rw = 1
		}
		v.SetCell(x, 0, r, t.Style)
		x += rw
		if x >= w {
			break
		}
	}
}

// Ellipsize truncates text to fit width display columns, inserting an
// ellipsis at the cut point — at the start if fromLeft, else at the end,
// matching the EllipsizeStart config flag's behavior.
func Ellipsize(text string, width int, fromLeft bool) string {
	if runewidth.StringWidth(text) <= width || width <= 0 {
		return text
	}
	const ellipsis = "…"
	ellW := runewidth.StringWidth(ellipsis)
	if width <= ellW {
		return runewidth.Truncate(text, width, "")
	}
	if fromLeft {
		return ellipsis + truncateLeft(text, width-ellW)
	}
	return runewidth.Truncate(text, width-ellW, "") + ellipsis
}

// truncateLeft keeps the trailing display columns of text, dropping
// leading runes until what remains fits within width columns.
func truncateLeft(text string, width int) string {
	runes := []rune(text)
	kept := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if kept+rw > width {
			break
		}
		kept += rw
		start = i
	}
	return string(runes[start:])
}

// List renders a vertical list of pre-styled lines, one row each, used by
// ViewState to paint its FilteredView window.
type List struct {
	Lines []TextLine
}

func (l *List) PreferredHeight(width int) int { return len(l.Lines) }

func (l *List) Draw(v display.ViewProxy) {
	w, h := v.Size()
	for i := 0; i < h && i < len(l.Lines); i++ {
		row := v.Sub(0, i, w, 1)
		l.Lines[i].Draw(row)
	}
}

// Stack composes widgets top to bottom, each given its PreferredHeight;
// a widget whose PreferredHeight is negative, and always the last widget,
// gets all the remaining space.
type Stack struct {
	Children []Widget
}

func (s *Stack) PreferredHeight(width int) int {
	total := 0
	for _, c := range s.Children {
		h := c.PreferredHeight(width)
		if h < 0 {
			return -1
		}
		total += h
	}
	return total
}

func (s *Stack) Draw(v display.ViewProxy) {
	w, h := v.Size()
	y := 0
	for i, c := range s.Children {
		remaining := h - y
		if remaining <= 0 {
			break
		}
		ch := c.PreferredHeight(w)
		if ch < 0 || i == len(s.Children)-1 {
			ch = remaining
		}
		if ch > remaining {
			ch = remaining
		}
		c.Draw(v.Sub(0, y, w, ch))
		y += ch
	}
}
