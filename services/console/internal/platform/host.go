// services/console/internal/platform/host.go
//go:build !rp2040

package platform

import (
	"context"
	"io"
	"sync"
	"time"

	"oledconsole-go/services/config"
	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/ssd1362"
	"oledconsole-go/services/console/internal/uartio"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin and IRQPin for the host build and tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	irqEdge halcore.Edge
	irqFunc func()
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	if pull == halcore.PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

// Set drives the level and raises the IRQ handler on a configured edge.
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	edge := edgeFrom(p.level, level)
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edge)
	p.mu.Unlock()
	if want && irq != nil {
		irq() // ISR-style callback used by gpioirq.Controller
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Toggle() { p.Set(!p.Get()) }

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	default:
		return seen != halcore.EdgeNone && cfg == seen
	}
}

// ----------------------------- SPI (host) ------------------------------------

// HostSPI implements drivers.SPI and only counts traffic.
type HostSPI struct {
	mu    sync.Mutex
	Bytes int
	Txs   int
	Last  []byte
}

func (h *HostSPI) Tx(w, r []byte) error {
	h.mu.Lock()
	h.Bytes += len(w)
	h.Txs++
	if len(w) <= 3 {
		h.Last = append(h.Last[:0], w...)
	}
	h.mu.Unlock()
	return nil
}

func (h *HostSPI) Transfer(b byte) (byte, error) {
	return 0, h.Tx([]byte{b}, nil)
}

// ----------------------------- UART (host) -----------------------------------

// idlePort never delivers a byte.
type idlePort struct{}

func (idlePort) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

// ----------------------------- Board (host) ----------------------------------

// Open builds an emulated board: fake pins, an SSD1362 framebuffer behind a
// counting SPI bus, and the serial streams given in opts.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Board, error) {
	ctx, cancel := context.WithCancel(ctx)
	pin := func(n int) *FakePin { return NewFakePin(n) }

	spi := &HostSPI{}
	dc, cs := pin(cfg.Pins.OLEDDC), pin(cfg.Pins.OLEDCS)
	disp := ssd1362.New(ssd1362.NewSPI(spi, dc, cs))
	if err := disp.Configure(ssd1362.Config{Rotate180: cfg.Display.Rotate180, Contrast: cfg.Display.Contrast}); err != nil {
		cancel()
		return nil, err
	}

	b := &Board{
		Name:     cfg.Board,
		EncoderA: pin(cfg.Pins.EncoderA),
		EncoderB: pin(cfg.Pins.EncoderB),
		Button:   pin(cfg.Pins.Button),
		LEDGreen: pin(cfg.Pins.LEDGreen),
		LEDRed:   pin(cfg.Pins.LEDRed),
		Display:  disp,
		TX:       io.Discard,
		RX:       idlePort{},
		Mirror:   opts.Mirror,
		Close:    cancel,
	}
	if opts.TX != nil {
		b.TX = opts.TX
	}
	if opts.RX != nil {
		b.RX = uartio.NewReaderPort(ctx, opts.RX, cfg.UART.RXFIFO)
	}
	return b, nil
}

// Spin turns a host encoder by n detents (negative: counter-clockwise),
// producing the rising edges a real quadrature encoder would.
func Spin(a, b *FakePin, n int, gap time.Duration) {
	step := func(first, second *FakePin) {
		first.Set(true)
		time.Sleep(gap)
		second.Set(true)
		time.Sleep(gap)
		first.Set(false)
		time.Sleep(gap)
		second.Set(false)
		time.Sleep(gap)
	}
	for ; n > 0; n-- {
		step(a, b)
	}
	for ; n < 0; n++ {
		step(b, a)
	}
}
