// services/console/internal/uartio/pump.go
package uartio

import (
	"context"
	"errors"
	"io"
	"time"

	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/util"
)

type PumpCfg struct {
	Port     halcore.RXPort
	MaxChunk int           // clamp 1..256; FIFO-threshold batch size
	Idle     time.Duration // receive timeout after traffic; 0 disables
	// OnError observes port errors other than cancellation (optional).
	OnError func(error)
}

// Pump copies bytes from the port into rx until ctx is done. After traffic,
// a quiet line for cfg.Idle raises the receive-timeout flag once.
func Pump(ctx context.Context, rx *RX, cfg PumpCfg) {
	max := cfg.MaxChunk
	if max < 1 {
		max = 1
	}
	if max > 256 {
		max = 256
	}
	buf := make([]byte, max)
	type chunk struct {
		n   int
		err error
	}
	recv := make(chan chunk, 1)
	ack := make(chan struct{}, 1)

	// The port read blocks; keep it off the timer loop.
	go func() {
		for {
			n, err := cfg.Port.RecvSomeContext(ctx, buf)
			select {
			case recv <- chunk{n, err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-ack:
			case <-ctx.Done():
				return
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil && n == 0 {
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	timer := util.StoppedTimer()
	defer timer.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-recv:
			if c.n > 0 {
				rx.Receive(buf[:c.n])
				if cfg.Idle > 0 {
					util.ResetTimer(timer, cfg.Idle)
					armed = true
				}
			}
			if c.err != nil && ctx.Err() == nil && cfg.OnError != nil {
				cfg.OnError(c.err)
			}
			ack <- struct{}{}
		case <-timer.C:
			if armed {
				armed = false
				rx.Raise(FlagTimeout)
			}
		}
	}
}
