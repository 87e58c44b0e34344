// services/console/internal/gpioirq/exti.go
package gpioirq

import (
	"sync/atomic"

	"oledconsole-go/errcode"
	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/sched"
)

// Line is an external interrupt line (0..15), one per pin index.
type Line uint8

const MaxLines = 16

// Pender receives the vector of a line group when an edge latches.
type Pender interface {
	Pend(v sched.Vector) error
}

// Controller is an EXTI-style edge latch: every configured edge sets the
// pending bit of its line and pends the vector the line is routed to. The
// bit stays set until the handling task calls Unpend.
type Controller struct {
	pending atomic.Uint32
	core    Pender

	// Bindings are swapped atomically so the edge path never takes a lock.
	lines [MaxLines]atomic.Pointer[binding]

	edges atomic.Uint32
	drops atomic.Uint32 // pends the core refused
}

type binding struct {
	pin  halcore.IRQPin
	edge halcore.Edge
	vec  sched.Vector
}

func New(core Pender) *Controller {
	return &Controller{core: core}
}

// Bind routes edge on pin to line and vector. It returns a cancel func that
// detaches the pin handler.
func (c *Controller) Bind(pin halcore.IRQPin, line Line, edge halcore.Edge, vec sched.Vector) (func(), error) {
	if line >= MaxLines {
		return nil, errcode.New("gpioirq.bind", errcode.InvalidParams, "line out of range")
	}
	if edge == halcore.EdgeNone {
		return func() {}, nil
	}
	b := &binding{pin: pin, edge: edge, vec: vec}
	if !c.lines[line].CompareAndSwap(nil, b) {
		return nil, errcode.New("gpioirq.bind", errcode.InvalidParams, "line already bound")
	}

	// ISR handler: latch, then pend. Must not block.
	handler := func() {
		c.latch(line, b)
	}
	if err := pin.SetIRQ(edge, handler); err != nil {
		c.lines[line].CompareAndSwap(b, nil)
		return nil, err
	}
	return func() {
		_ = pin.ClearIRQ()
		c.lines[line].CompareAndSwap(b, nil)
	}, nil
}

// Latch sets the pending bit of line and pends its vector, as the hardware
// would on a configured edge. Unbound lines are ignored.
func (c *Controller) Latch(line Line) {
	if line >= MaxLines {
		return
	}
	if b := c.lines[line].Load(); b != nil {
		c.latch(line, b)
	}
}

func (c *Controller) latch(line Line, b *binding) {
	c.set(line)
	c.edges.Add(1)
	if err := c.core.Pend(b.vec); err != nil {
		c.drops.Add(1)
	}
}

func (c *Controller) set(line Line) {
	for {
		old := c.pending.Load()
		if c.pending.CompareAndSwap(old, old|1<<line) {
			return
		}
	}
}

func (c *Controller) IsPending(line Line) bool {
	return line < MaxLines && c.pending.Load()&(1<<line) != 0
}

// Unpend clears the pending bit of line.
func (c *Controller) Unpend(line Line) {
	if line >= MaxLines {
		return
	}
	for {
		old := c.pending.Load()
		if c.pending.CompareAndSwap(old, old&^(1<<line)) {
			return
		}
	}
}

// Pending returns the raw pending register.
func (c *Controller) Pending() uint32 { return c.pending.Load() }

// Group is the level view of a set of lines that share one vector. It is
// asserted while any of its lines is still pending, which is what re-enters
// a handler that forgot to Unpend.
type Group struct {
	c    *Controller
	mask uint32
}

func (c *Controller) Group(lines ...Line) Group {
	var m uint32
	for _, l := range lines {
		if l < MaxLines {
			m |= 1 << l
		}
	}
	return Group{c: c, mask: m}
}

// Range covers lines lo..hi inclusive (EXTI4_15 style groups).
func (c *Controller) Range(lo, hi Line) Group {
	var ls []Line
	for l := lo; l <= hi && l < MaxLines; l++ {
		ls = append(ls, l)
	}
	return c.Group(ls...)
}

func (g Group) Asserted() bool { return g.c.pending.Load()&g.mask != 0 }

type Stats struct {
	Edges uint32
	Drops uint32
}

func (c *Controller) Stats() Stats {
	return Stats{Edges: c.edges.Load(), Drops: c.drops.Load()}
}
