//go:build !rp2040

package console

import (
	"context"
	"time"

	"oledconsole-go/services/console/internal/platform"
)

// Demo turns the emulated encoder back and forth and presses the button
// every period until ctx is done. It does nothing on boards without
// emulated pins.
func Demo(ctx context.Context, b *Board, period time.Duration) {
	a, ok1 := b.EncoderA.(*platform.FakePin)
	bb, ok2 := b.EncoderB.(*platform.FakePin)
	btn, ok3 := b.Button.(*platform.FakePin)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	tick := time.NewTicker(period)
	defer tick.Stop()
	dir := 1
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		platform.Spin(a, bb, dir*2, time.Millisecond)
		if n%4 == 3 {
			dir = -dir
			btn.Set(true)
			btn.Set(false)
		}
	}
}
