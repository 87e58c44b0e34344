// Package term provides the two text sinks of the console: a scrolling
// terminal drawn on the OLED and a serial transmit line.
package term

import (
	"io"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

var crlf = []byte("\r\n")

type Config struct {
	Font       *tinyfont.Font // nil => proggy TinySZ8pt7b
	FontHeight int16
	FontOffset int16
	// Mirror, when set, receives every line as well (host console, tests).
	Mirror io.Writer
}

// Terminal writes lines into a tinyterm and pushes the framebuffer to the
// panel on Render. Writes only touch the framebuffer.
type Terminal struct {
	disp   tinyterm.Displayer
	tt     *tinyterm.Terminal
	mirror io.Writer
	dirty  bool

	lines   uint32
	renders uint32
}

func New(d tinyterm.Displayer, cfg Config) *Terminal {
	if cfg.Font == nil {
		cfg.Font = &proggy.TinySZ8pt7b
	}
	if cfg.FontHeight == 0 {
		cfg.FontHeight = 10
	}
	if cfg.FontOffset == 0 {
		cfg.FontOffset = 6
	}
	tt := tinyterm.NewTerminal(d)
	tt.Configure(&tinyterm.Config{
		Font:              cfg.Font,
		FontHeight:        cfg.FontHeight,
		FontOffset:        cfg.FontOffset,
		UseSoftwareScroll: true,
	})
	return &Terminal{disp: d, tt: tt, mirror: cfg.Mirror}
}

// WriteLine appends one line of text.
func (t *Terminal) WriteLine(p []byte) {
	t.tt.Write(p)
	t.tt.Write(crlf)
	if t.mirror != nil {
		t.mirror.Write(p)
		t.mirror.Write(crlf[1:])
	}
	t.lines++
	t.dirty = true
}

// WriteString is WriteLine for string literals.
func (t *Terminal) WriteString(s string) { t.WriteLine([]byte(s)) }

// Render flushes the framebuffer if anything was written since the last
// call.
func (t *Terminal) Render() error {
	if !t.dirty {
		return nil
	}
	t.dirty = false
	t.renders++
	return t.disp.Display()
}

func (t *Terminal) Dirty() bool { return t.dirty }

// Stats returns lines written and framebuffer flushes.
func (t *Terminal) Stats() (lines, renders uint32) { return t.lines, t.renders }
