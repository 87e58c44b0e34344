// services/console/internal/platform/timer.go
package platform

import (
	"context"
	"sync/atomic"
	"time"

	"oledconsole-go/services/console/internal/sched"
	"oledconsole-go/x/timex"
)

type Pender interface {
	Pend(v sched.Vector) error
}

// Timer is a periodic update-interrupt peripheral. Every period it sets its
// update flag and pends its vector; the handler must Clear the flag.
type Timer struct {
	flag atomic.Bool
	vec  sched.Vector
	core Pender

	fired atomic.Uint32
}

func NewTimer(vec sched.Vector, core Pender) *Timer {
	return &Timer{vec: vec, core: core}
}

// Start runs the timer at hz until ctx is done.
func (t *Timer) Start(ctx context.Context, hz uint32) {
	period := timex.Period(hz)
	go func() {
		tick := time.NewTicker(period)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				t.Fire()
			}
		}
	}()
}

// Fire raises the update flag once.
func (t *Timer) Fire() {
	t.flag.Store(true)
	t.fired.Add(1)
	_ = t.core.Pend(t.vec)
}

func (t *Timer) Pending() bool { return t.flag.Load() }

func (t *Timer) Clear() { t.flag.Store(false) }

// Asserted is the interrupt line level.
func (t *Timer) Asserted() bool { return t.flag.Load() }

func (t *Timer) Fired() uint32 { return t.fired.Load() }
