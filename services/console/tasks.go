package console

import (
	"log/slog"

	"oledconsole-go/services/console/internal/gpioirq"
	"oledconsole-go/services/console/internal/lineasm"
	"oledconsole-go/services/console/internal/platform"
	"oledconsole-go/services/console/internal/quadrature"
	"oledconsole-go/services/console/internal/sched"
	"oledconsole-go/services/console/internal/term"
	"oledconsole-go/services/console/internal/uartio"
	"oledconsole-go/x/conv"
)

// terminalSink lets the assembler write finished lines from rx_line.
type terminalSink struct {
	res *sched.Resource[*term.Terminal]
	cx  *sched.Context
}

func (t *terminalSink) WriteLine(p []byte) {
	_ = t.res.Lock(t.cx, func(tt **term.Terminal) { (*tt).WriteLine(p) })
}

// onTimer acknowledges the update flag and flushes the terminal.
func (s *Service) onTimer(cx *sched.Context) {
	_ = s.res.timer.Lock(cx, func(t **platform.Timer) { (*t).Clear() })
	var err error
	_ = s.res.terminal.Lock(cx, func(t **term.Terminal) { err = (*t).Render() })
	if err != nil {
		s.log.Warn("display:flush", slog.String("err", err.Error()))
	}
}

// ack reports whether line had latched and clears it.
func (s *Service) ack(cx *sched.Context, line gpioirq.Line) (hit bool) {
	_ = s.res.exti.Lock(cx, func(e **gpioirq.Controller) {
		if hit = (*e).IsPending(line); hit {
			(*e).Unpend(line)
		}
	})
	return hit
}

func (s *Service) step(cx *sched.Context, ch quadrature.Channel) (pos int32) {
	_ = s.res.position.Lock(cx, func(d **quadrature.Decoder) { pos, _ = (*d).Update(ch) })
	return pos
}

func (s *Service) onEncoderA(cx *sched.Context) {
	if !s.ack(cx, LineEncoderA) {
		return
	}
	line := conv.Line(s.lineA[:0], "encoder a: ", int64(s.step(cx, quadrature.A)))
	_ = s.res.terminal.Lock(cx, func(t **term.Terminal) { (*t).WriteLine(line) })
}

func (s *Service) onEncoderB(cx *sched.Context) {
	if !s.ack(cx, LineEncoderB) {
		return
	}
	_ = s.res.leds.Lock(cx, func(l *leds) { l.red.Set(true) })
	line := conv.Line(s.lineB[:0], "encoder b: ", int64(s.step(cx, quadrature.B)))
	_ = s.res.tx.Lock(cx, func(t **term.SerialSink) { (*t).WriteLine(line) })
	_ = s.res.leds.Lock(cx, func(l *leds) { l.green.Toggle() })
}

func (s *Service) onButton(cx *sched.Context) {
	s.ack(cx, LineButton)
	_ = s.res.terminal.Lock(cx, func(t **term.Terminal) { (*t).WriteString(buttonText) })
}

// onUsartRx empties the receive FIFO, then reports line faults, handing
// each item to rx_line. Items that do not fit the rx_line queue are lost
// and counted as drops.
func (s *Service) onUsartRx(cx *sched.Context) {
	idle := false
	_ = s.res.rx.Lock(cx, func(r **uartio.RX) {
		rx := *r
		for {
			b, ok := rx.ReadByte()
			if !ok {
				break
			}
			s.rxLine.Spawn(cx, rxEvent{b: b})
		}
		for _, k := range rx.TakeErrors() {
			s.rxLine.Spawn(cx, rxEvent{fault: true, kind: k})
		}
		if rx.Flags()&uartio.FlagTimeout != 0 {
			rx.Clear(uartio.FlagTimeout)
			idle = true
		}
	})
	if idle {
		s.log.Debug("uart:idle")
	}
}

func (s *Service) onRxLine(cx *sched.Context, ev rxEvent) {
	_ = s.res.assembler.Lock(cx, func(a **lineasm.Assembler) {
		if ev.fault {
			(*a).FeedError(ev.kind)
			return
		}
		(*a).Feed(ev.b)
	})
	if ev.fault {
		s.log.Warn("uart:rx-error", slog.String("kind", ev.kind.String()))
	}
}

func (s *Service) onStartup(cx *sched.Context, banner string) {
	if banner == "" {
		return
	}
	_ = s.res.terminal.Lock(cx, func(t **term.Terminal) { (*t).WriteString(banner) })
	_ = s.res.tx.Lock(cx, func(t **term.SerialSink) { (*t).WriteString(banner) })
	s.log.Debug("console:banner", slog.String("text", banner))
}
