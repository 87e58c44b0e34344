// Package lineasm assembles a serial byte stream into newline-terminated
// lines and forwards them to a text sink.
package lineasm

import "oledconsole-go/errcode"

const (
	// Capacity is the longest line kept; bytes past it are dropped.
	Capacity = 1024
	// Marker replaces a receive error in the text stream.
	Marker = '!'
)

// LineWriter receives completed lines. The slice is only valid for the
// duration of the call.
type LineWriter interface {
	WriteLine(line []byte)
}

// Kind is a hardware receive fault.
type Kind uint8

const (
	Overrun Kind = iota
	Framing
	Noise
	Parity
	numKinds
)

// Code maps the fault onto its stable error code.
func (k Kind) Code() errcode.Code {
	switch k {
	case Overrun:
		return errcode.ReceiveOverrun
	case Framing:
		return errcode.ReceiveFraming
	case Noise:
		return errcode.ReceiveNoise
	case Parity:
		return errcode.ReceiveParity
	}
	return errcode.Error
}

func (k Kind) String() string { return string(k.Code()) }

type Options struct {
	StripCR bool // ignore '\r' so CRLF input yields clean lines
}

type Stats struct {
	Lines     uint32 // flushes, including empty lines
	Truncated uint32 // flushed lines that lost bytes to overflow
	Dropped   uint32 // bytes discarded because the buffer was full
	Errors    [numKinds]uint32
}

// Assembler holds the current partial line. It never blocks and never
// allocates after construction.
type Assembler struct {
	buf       [Capacity]byte
	n         int
	truncated bool
	sink      LineWriter
	opts      Options
	stats     Stats
}

func New(sink LineWriter, opts Options) *Assembler {
	return &Assembler{sink: sink, opts: opts}
}

// Feed consumes one byte. A newline flushes the buffered text (without the
// newline) and clears the buffer. When the buffer is full the new byte is
// discarded and the line is marked truncated; the next newline still
// flushes, so line boundaries survive an overflow.
func (a *Assembler) Feed(b byte) {
	switch {
	case b == '\n':
		a.flush()
	case b == '\r' && a.opts.StripCR:
	case a.n == Capacity:
		a.truncated = true
		a.stats.Dropped++
	default:
		a.buf[a.n] = b
		a.n++
	}
}

// FeedAll consumes a batch, e.g. a drained receive FIFO.
func (a *Assembler) FeedAll(p []byte) {
	for _, b := range p {
		a.Feed(b)
	}
}

// FeedError records a receive fault as the marker byte and terminates the
// current line so the fault is never merged into later text. On a full
// buffer the marker replaces the last byte, so a faulted line always ends
// in Marker.
func (a *Assembler) FeedError(k Kind) {
	if k < numKinds {
		a.stats.Errors[k]++
	}
	if a.n == Capacity {
		a.buf[Capacity-1] = Marker
		a.truncated = true
		a.stats.Dropped++
	} else {
		a.Feed(Marker)
	}
	a.Feed('\n')
}

func (a *Assembler) flush() {
	if a.sink != nil {
		a.sink.WriteLine(a.buf[:a.n])
	}
	a.stats.Lines++
	if a.truncated {
		a.stats.Truncated++
	}
	a.n = 0
	a.truncated = false
}

// Len returns the number of buffered bytes of the current line.
func (a *Assembler) Len() int { return a.n }

// Pending returns the current partial line without consuming it.
func (a *Assembler) Pending() []byte { return a.buf[:a.n] }

func (a *Assembler) SetSink(s LineWriter) { a.sink = s }

func (a *Assembler) Stats() Stats { return a.stats }
