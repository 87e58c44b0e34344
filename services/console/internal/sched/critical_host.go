//go:build !tinygo

package sched

import "sync"

// On the host there is no interrupt mask: a mutex guards dispatcher
// bookkeeping and task bodies only ever run on the goroutine that owns the
// core (see Core.drain). Foreign goroutines pend and return.
const preemptInline = false

type irqState struct{}

type critical struct{ mu sync.Mutex }

func (c *critical) enter() irqState { c.mu.Lock(); return irqState{} }
func (c *critical) exit(irqState)   { c.mu.Unlock() }
