// services/console/internal/uartio/rx.go
package uartio

import (
	"sync/atomic"

	"oledconsole-go/services/console/internal/lineasm"
	"oledconsole-go/services/console/internal/sched"
	"oledconsole-go/x/ring"
)

// Flag is a bit of the receive status register.
type Flag uint32

const (
	FlagOverrun Flag = 1 << iota
	FlagFraming
	FlagNoise
	FlagParity
	FlagTimeout // line idle after traffic

	errorFlags = FlagOverrun | FlagFraming | FlagNoise | FlagParity
)

// Kind maps an error flag onto the assembler's fault kind.
func (f Flag) Kind() (lineasm.Kind, bool) {
	switch f {
	case FlagOverrun:
		return lineasm.Overrun, true
	case FlagFraming:
		return lineasm.Framing, true
	case FlagNoise:
		return lineasm.Noise, true
	case FlagParity:
		return lineasm.Parity, true
	}
	return 0, false
}

// Pender receives the RX vector.
type Pender interface {
	Pend(v sched.Vector) error
}

type RXConfig struct {
	FIFO   int // receive FIFO depth, >= 1
	Vector sched.Vector
}

// RX models a USART receiver: a bounded FIFO, sticky status flags and one
// interrupt vector. The producer side (Receive, Raise) runs in interrupt or
// pump context; the consumer side belongs to the RX task.
type RX struct {
	fifo  *ring.Ring[byte]
	flags atomic.Uint32
	vec   sched.Vector
	core  Pender

	received atomic.Uint32
	overruns atomic.Uint32
}

func NewRX(cfg RXConfig, core Pender) *RX {
	if cfg.FIFO < 1 {
		cfg.FIFO = 1
	}
	return &RX{fifo: ring.New[byte](cfg.FIFO), vec: cfg.Vector, core: core}
}

// Receive pushes bytes into the FIFO. Bytes that do not fit are lost and
// raise overrun. The vector is pended once per call.
func (r *RX) Receive(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	n := r.fifo.PushFrom(p)
	r.received.Add(uint32(n))
	if n < len(p) {
		r.overruns.Add(uint32(len(p) - n))
		r.or(FlagOverrun)
	}
	r.pend()
	return n
}

// Raise sets status flags and pends the vector.
func (r *RX) Raise(f Flag) {
	r.or(f)
	r.pend()
}

func (r *RX) or(f Flag) {
	for {
		old := r.flags.Load()
		if r.flags.CompareAndSwap(old, old|uint32(f)) {
			return
		}
	}
}

func (r *RX) pend() { _ = r.core.Pend(r.vec) }

// Flags returns the status register.
func (r *RX) Flags() Flag { return Flag(r.flags.Load()) }

// Clear acknowledges flags.
func (r *RX) Clear(f Flag) {
	for {
		old := r.flags.Load()
		if r.flags.CompareAndSwap(old, old&^uint32(f)) {
			return
		}
	}
}

// TakeErrors returns and clears the pending error flags, lowest bit first.
func (r *RX) TakeErrors() []lineasm.Kind {
	var out []lineasm.Kind
	f := r.Flags() & errorFlags
	if f == 0 {
		return nil
	}
	r.Clear(f)
	for bit := FlagOverrun; bit <= FlagParity; bit <<= 1 {
		if f&bit != 0 {
			k, _ := bit.Kind()
			out = append(out, k)
		}
	}
	return out
}

// ReadByte pops one received byte.
func (r *RX) ReadByte() (byte, bool) { return r.fifo.TryPop() }

// Drain moves up to len(dst) received bytes into dst.
func (r *RX) Drain(dst []byte) int { return r.fifo.PopInto(dst) }

func (r *RX) Buffered() int { return r.fifo.Len() }

// Asserted is the level of the RX interrupt line: data waiting or any flag
// set.
func (r *RX) Asserted() bool { return r.fifo.Len() > 0 || r.flags.Load() != 0 }

type RXStats struct {
	Received uint32
	Overruns uint32 // bytes lost to a full FIFO
}

func (r *RX) Stats() RXStats {
	return RXStats{Received: r.received.Load(), Overruns: r.overruns.Load()}
}
