// services/console/internal/platform/rp2040.go
//go:build rp2040

package platform

import (
	"context"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"oledconsole-go/errcode"
	"oledconsole-go/services/config"
	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/ssd1362"
)

type rp2Pin struct {
	p machine.Pin
	n int
}

func newPin(n int) (*rp2Pin, error) {
	if n < 0 || n > 28 {
		return nil, errcode.UnknownPin
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, nil
}

func (r *rp2Pin) ConfigureInput(p halcore.Pull) error {
	var mode machine.PinMode
	switch p {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}
func (r *rp2Pin) Set(b bool) { r.p.Set(b) }
func (r *rp2Pin) Get() bool  { return r.p.Get() }
func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}
func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	var ch machine.PinChange
	switch edge {
	case halcore.EdgeRising:
		ch = machine.PinRising
	case halcore.EdgeFalling:
		ch = machine.PinFalling
	case halcore.EdgeBoth:
		ch = machine.PinToggle
	default:
		return r.ClearIRQ()
	}
	return r.p.SetInterrupt(ch, func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error { return r.p.SetInterrupt(0, nil) }

// rp2RX adapts uartx to halcore.RXPort.
type rp2RX struct{ u *uartx.UART }

func (p rp2RX) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

func parity(s string) uartx.UARTParity {
	switch s {
	case "even":
		return uartx.ParityEven
	case "odd":
		return uartx.ParityOdd
	default:
		return uartx.ParityNone
	}
}

// Open brings up the Pico: encoder and button inputs, LEDs, SPI0 to the
// SSD1362 and UART0 for the console.
func Open(_ context.Context, cfg config.Config, _ Options) (*Board, error) {
	p := cfg.Pins
	in := func(n int, pull halcore.Pull) (*rp2Pin, error) {
		pin, err := newPin(n)
		if err != nil {
			return nil, err
		}
		return pin, pin.ConfigureInput(pull)
	}
	out := func(n int) (*rp2Pin, error) {
		pin, err := newPin(n)
		if err != nil {
			return nil, err
		}
		return pin, pin.ConfigureOutput(false)
	}

	encA, err := in(p.EncoderA, halcore.PullNone)
	if err != nil {
		return nil, err
	}
	encB, err := in(p.EncoderB, halcore.PullNone)
	if err != nil {
		return nil, err
	}
	btn, err := in(p.Button, halcore.PullUp)
	if err != nil {
		return nil, err
	}
	green, err := out(p.LEDGreen)
	if err != nil {
		return nil, err
	}
	red, err := out(p.LEDRed)
	if err != nil {
		return nil, err
	}
	dc, err := out(p.OLEDDC)
	if err != nil {
		return nil, err
	}
	cs, err := out(p.OLEDCS)
	if err != nil {
		return nil, err
	}

	if err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: cfg.Display.SPIHz,
		SCK:       machine.Pin(p.SPISCK),
		SDO:       machine.Pin(p.SPISDO),
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	if p.OLEDRST >= 0 {
		rst, err := out(p.OLEDRST)
		if err != nil {
			return nil, err
		}
		ssd1362.Reset(rst)
	}
	disp := ssd1362.New(ssd1362.NewSPI(machine.SPI0, dc, cs))
	if err := disp.Configure(ssd1362.Config{Rotate180: cfg.Display.Rotate180, Contrast: cfg.Display.Contrast}); err != nil {
		return nil, err
	}

	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.UART.Baud,
		TX:       machine.Pin(p.UARTTX),
		RX:       machine.Pin(p.UARTRX),
	}); err != nil {
		return nil, err
	}
	if err := u.SetFormat(cfg.UART.DataBits, cfg.UART.StopBits, parity(cfg.UART.Parity)); err != nil {
		return nil, err
	}

	return &Board{
		Name:     cfg.Board,
		EncoderA: encA,
		EncoderB: encB,
		Button:   btn,
		LEDGreen: green,
		LEDRed:   red,
		Display:  disp,
		TX:       u,
		RX:       rp2RX{u: u},
	}, nil
}
