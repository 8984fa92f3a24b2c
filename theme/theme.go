// Package theme holds the colors and text attributes used to paint entries
// and chrome, parsed from hex colors into an RGB model with go-colorful
// so colors can be blended. The Display backend does the actual painting; this package
// only owns the palette it paints with.
package theme

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Attr is a bitmask of text attributes, mirroring the attribute/style
// vocabulary a terminal or compositor surface exposes. The pixel-level
// painting algorithm is out of scope here — only the named attributes
// survive.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Style pairs a foreground/background color with text attributes.
type Style struct {
	Fg   colorful.Color
	Bg   colorful.Color
	Attr Attr
}

// Element names one themeable surface; an entry's state flags map onto
// these through Theme.For.
type Element string

const (
	ElementNormal   Element = "normal"
	ElementSelected Element = "selected"
	ElementUrgent   Element = "urgent"
	ElementActive   Element = "active"
	ElementPrompt   Element = "prompt"
	ElementBorder   Element = "border"
)

// Theme maps elements to styles. Unknown elements fall back to
// ElementNormal's style.
type Theme struct {
	styles map[Element]Style
}

// Default returns rofi's built-in monochrome-plus-accent theme.
func Default() *Theme {
	white, _ := colorful.Hex("#e0e0e0")
	black, _ := colorful.Hex("#1d1f21")
	blue, _ := colorful.Hex("#5294e2")
	red, _ := colorful.Hex("#e25252")
	amber, _ := colorful.Hex("#e2a352")

	return &Theme{styles: map[Element]Style{
		ElementNormal:   {Fg: white, Bg: black},
		ElementSelected: {Fg: black, Bg: blue, Attr: AttrBold},
		ElementUrgent:   {Fg: black, Bg: red, Attr: AttrBold},
		ElementActive:   {Fg: black, Bg: amber},
		ElementPrompt:   {Fg: blue, Bg: black, Attr: AttrBold},
		ElementBorder:   {Fg: blue, Bg: black},
	}}
}

// For returns the style for element, falling back to ElementNormal.
func (t *Theme) For(e Element) Style {
	if s, ok := t.styles[e]; ok {
		return s
	}
	return t.styles[ElementNormal]
}

// Set overrides the style for element, used when loading a user theme
// override from configuration.
func (t *Theme) Set(e Element, s Style) {
	if t.styles == nil {
		t.styles = make(map[Element]Style)
	}
	t.styles[e] = s
}

// ParseHex parses a "#rrggbb" color, reporting an error on malformed
// input rather than silently falling back — bad theme colors should
// surface, not vanish.
func ParseHex(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(err, "invalid color %q", hex)
	}
	return c, nil
}

// Blend linearly interpolates between two colors in Lab space (t=0 -> a,
// t=1 -> b), used for hover/transition styling.
func Blend(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendLab(b, t)
}
