package simscreen

import (
	"testing"

	"github.com/rofi-go/rofi/display"
	"github.com/rofi-go/rofi/theme"
	"github.com/stretchr/testify/require"
)

func TestSetCellAndContents(t *testing.T) {
	s := New(10, 5)
	vp := display.NewViewProxy(s)
	vp.SetCell(2, 1, 'x', theme.Style{})

	cells, w, h := s.Contents()
	require.Equal(t, 10, w)
	require.Equal(t, 5, h)
	require.Equal(t, 'x', cells[1*10+2].Rune)
}

func TestSubViewClips(t *testing.T) {
	s := New(10, 5)
	vp := display.NewViewProxy(s)
	sub := vp.Sub(5, 0, 10, 10)
	sw, sh := sub.Size()
	require.Equal(t, 5, sw)
	require.Equal(t, 5, sh)

	sub.SetCell(0, 0, 'a', theme.Style{})
	cells, _, _ := s.Contents()
	require.Equal(t, 'a', cells[5].Rune)
}

func TestInjectKeyDelivered(t *testing.T) {
	s := New(10, 5)
	s.InjectKey(0, 0, 'q')
	ev, ok := s.PollEvent()
	require.True(t, ok)
	ke, ok := ev.(display.KeyEvent)
	require.True(t, ok)
	require.Equal(t, 'q', ke.Rune)
}

func TestResizeEnqueuesEvent(t *testing.T) {
	s := New(10, 5)
	s.Resize(20, 8)
	ev, ok := s.PollEvent()
	require.True(t, ok)
	re, ok := ev.(display.ResizeEvent)
	require.True(t, ok)
	require.Equal(t, 20, re.W)
}
