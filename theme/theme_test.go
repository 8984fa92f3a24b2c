package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultThemeHasCoreElements(t *testing.T) {
	th := Default()
	for _, e := range []Element{ElementNormal, ElementSelected, ElementUrgent, ElementActive, ElementPrompt, ElementBorder} {
		s := th.For(e)
		require.NotZero(t, s.Fg)
	}
}

func TestForUnknownFallsBackToNormal(t *testing.T) {
	th := Default()
	require.Equal(t, th.For(ElementNormal), th.For(Element("nonexistent")))
}

func TestSetOverridesStyle(t *testing.T) {
	th := Default()
	fg, err := ParseHex("#ff0000")
	require.NoError(t, err)
	th.Set(ElementSelected, Style{Fg: fg, Attr: AttrBold})
	require.Equal(t, fg, th.For(ElementSelected).Fg)
}

func TestParseHexRejectsGarbage(t *testing.T) {
	_, err := ParseHex("not-a-color")
	require.Error(t, err)
}
