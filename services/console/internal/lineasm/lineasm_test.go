package lineasm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct{ lines []string }

func (r *recorder) WriteLine(p []byte) { r.lines = append(r.lines, string(p)) }

func TestSimpleLine(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	a.FeedAll([]byte("hi"))
	require.Empty(t, r.lines)
	a.Feed('\n')
	require.Equal(t, []string{"hi"}, r.lines)
	require.Zero(t, a.Len())
}

func TestNoNewlineNeverFlushes(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	for i := 0; i < 3*Capacity; i++ {
		a.Feed(byte('a' + i%26))
	}
	require.Empty(t, r.lines)
	require.Equal(t, Capacity, a.Len())
}

func TestOverlongLineIsClippedAndBoundaryKept(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	long := bytes.Repeat([]byte("x"), Capacity+10)
	a.FeedAll(long)
	a.Feed('\n')
	a.FeedAll([]byte("next\n"))

	require.Len(t, r.lines, 2)
	require.Equal(t, string(long[:Capacity]), r.lines[0])
	require.Equal(t, "next", r.lines[1])
	st := a.Stats()
	require.Equal(t, uint32(10), st.Dropped)
	require.Equal(t, uint32(1), st.Truncated)
	require.Equal(t, uint32(2), st.Lines)
}

func TestConsecutiveNewlinesFlushEmptyLine(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	a.FeedAll([]byte("ok\n\n"))
	require.Equal(t, []string{"ok", ""}, r.lines)
}

func TestErrorMidLineFlushesWithMarker(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	a.FeedAll([]byte("ab"))
	a.FeedError(Overrun)
	require.Equal(t, []string{"ab!"}, r.lines)
	require.Zero(t, a.Len())

	a.FeedAll([]byte("cd\n"))
	require.Equal(t, []string{"ab!", "cd"}, r.lines)
	require.Equal(t, uint32(1), a.Stats().Errors[Overrun])
}

func TestEveryKindProducesMarkerLine(t *testing.T) {
	for _, k := range []Kind{Overrun, Framing, Noise, Parity} {
		var r recorder
		a := New(&r, Options{})
		a.FeedError(k)
		require.Equal(t, []string{"!"}, r.lines, k.String())
		require.Equal(t, uint32(1), a.Stats().Errors[k])
	}
	require.Equal(t, "framing", Framing.String())
	require.Equal(t, "parity", Parity.String())
}

func TestStripCR(t *testing.T) {
	var r recorder
	a := New(&r, Options{StripCR: true})
	a.FeedAll([]byte("AT\r\nOK\r\n"))
	require.Equal(t, []string{"AT", "OK"}, r.lines)

	var raw recorder
	b := New(&raw, Options{})
	b.FeedAll([]byte("AT\r\n"))
	require.Equal(t, []string{"AT\r"}, raw.lines)
}

func TestNilSinkStillClears(t *testing.T) {
	a := New(nil, Options{})
	a.FeedAll([]byte("lost\n"))
	require.Zero(t, a.Len())
	require.Equal(t, uint32(1), a.Stats().Lines)

	var r recorder
	a.SetSink(&r)
	a.FeedAll([]byte("kept\n"))
	require.Equal(t, []string{"kept"}, r.lines)
}

func TestErrorOnFullBufferKeepsMarker(t *testing.T) {
	var r recorder
	a := New(&r, Options{})
	a.FeedAll(bytes.Repeat([]byte("x"), Capacity))
	a.FeedError(Overrun)

	require.Len(t, r.lines, 1)
	line := r.lines[0]
	require.Len(t, line, Capacity)
	require.Equal(t, byte(Marker), line[Capacity-1])
	require.Equal(t, string(bytes.Repeat([]byte("x"), Capacity-1)), line[:Capacity-1])
	st := a.Stats()
	require.Equal(t, uint32(1), st.Truncated)
	require.Equal(t, uint32(1), st.Dropped)
	require.Equal(t, uint32(1), st.Errors[Overrun])
	require.Zero(t, a.Len())
}
