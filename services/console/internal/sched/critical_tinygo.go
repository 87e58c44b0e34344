//go:build tinygo

package sched

import "runtime/interrupt"

// On the MCU a pend arrives from ISR context, which has already suspended
// whatever was running, so higher-priority work is dispatched inline.
const preemptInline = true

type irqState = interrupt.State

type critical struct{}

func (*critical) enter() irqState { return interrupt.Disable() }
func (*critical) exit(s irqState) { interrupt.Restore(s) }
