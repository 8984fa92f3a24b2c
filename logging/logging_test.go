package logging

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBufferAccumulatesWarnings(t *testing.T) {
	var b Buffer
	require.True(t, b.Empty())

	b.Warn("bad regex %q", "(")
	b.WarnErr(errors.New("boom"), "key binding")

	require.False(t, b.Empty())
	events := b.Events()
	require.Len(t, events, 2)
	require.Equal(t, Warn, events[0].Severity)
	require.Contains(t, events[1].Error(), "key binding")

	b.Reset()
	require.True(t, b.Empty())
}

func TestEventUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	ev := &Event{Severity: Recoverable, Err: cause}
	require.ErrorIs(t, ev, cause)
}
