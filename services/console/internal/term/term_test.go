package term

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	pixels   int
	displays int
}

func (f *fakeDisplay) Size() (x, y int16) { return 256, 64 }

func (f *fakeDisplay) SetPixel(x, y int16, c color.RGBA) { f.pixels++ }

func (f *fakeDisplay) Display() error {
	f.displays++
	return nil
}

func (f *fakeDisplay) FillRectangle(x, y, w, h int16, c color.RGBA) error { return nil }

func (f *fakeDisplay) SetScroll(line int16) {}

func TestTerminalRendersOnlyWhenDirty(t *testing.T) {
	d := &fakeDisplay{}
	var mirror bytes.Buffer
	tm := New(d, Config{Mirror: &mirror})

	require.NoError(t, tm.Render())
	require.Zero(t, d.displays)

	tm.WriteString("encoder a: 1")
	require.True(t, tm.Dirty())
	require.NoError(t, tm.Render())
	require.NoError(t, tm.Render())
	require.Equal(t, 1, d.displays)
	require.False(t, tm.Dirty())

	require.Equal(t, "encoder a: 1\n", mirror.String())
	lines, renders := tm.Stats()
	require.Equal(t, uint32(1), lines)
	require.Equal(t, uint32(1), renders)
}

func TestTerminalDrawsGlyphs(t *testing.T) {
	d := &fakeDisplay{}
	tm := New(d, Config{})
	tm.WriteString("HELLO")
	require.Positive(t, d.pixels)
}

type failWriter struct{ n int }

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("tx busy")
}

func TestSerialSink(t *testing.T) {
	var out bytes.Buffer
	s := NewSerial(&out)
	s.WriteString("encoder b: -3")
	s.WriteLine([]byte("<== button ==>"))
	require.Equal(t, "encoder b: -3\n<== button ==>\n", out.String())

	fw := &failWriter{}
	bad := NewSerial(fw)
	bad.WriteString("x")
	lines, errs := bad.Stats()
	require.Zero(t, lines)
	require.Equal(t, uint32(1), errs)
	require.Equal(t, 1, fw.n)

	NewSerial(nil).WriteString("dropped")
}
