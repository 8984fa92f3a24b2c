package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunksCoversWholeRange(t *testing.T) {
	chunks := Chunks(1007, 500, 8)
	total := 0
	prevEnd := 0
	for _, c := range chunks {
		require.Equal(t, prevEnd, c[0])
		require.Less(t, c[0], c[1])
		total += c[1] - c[0]
		prevEnd = c[1]
	}
	require.Equal(t, 1007, total)
	require.Equal(t, 1007, prevEnd)
}

func TestChunksClampsToMax(t *testing.T) {
	chunks := Chunks(100000, 500, 4)
	require.Len(t, chunks, 4)
}

func TestChunksSmallRangeIsOneChunk(t *testing.T) {
	chunks := Chunks(10, 500, 8)
	require.Equal(t, [][2]int{{0, 10}}, chunks)
}

func TestRunExecutesAllAndJoins(t *testing.T) {
	p := New(4)
	var count int64
	fns := make([]func(), 20)
	for i := range fns {
		fns[i] = func() { atomic.AddInt64(&count, 1) }
	}
	p.Run(fns)
	require.Equal(t, int64(20), count)
}

func TestNewClampsThreadCount(t *testing.T) {
	p := New(1000)
	require.Equal(t, maxThreads, p.Size())
}

func TestNewAutoSizesWhenZero(t *testing.T) {
	p := New(0)
	require.GreaterOrEqual(t, p.Size(), 1)
}
