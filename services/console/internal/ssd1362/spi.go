package ssd1362

import (
	"time"

	"tinygo.org/x/drivers"
)

// Pin is an output line (machine.Pin and halcore.GPIOPin both fit).
type Pin interface {
	Set(level bool)
}

// SPIInterface drives the 4-wire serial mode: D/C low for commands, high
// for data, chip select active low around each transfer.
type SPIInterface struct {
	bus drivers.SPI
	dc  Pin
	cs  Pin
}

func NewSPI(bus drivers.SPI, dc, cs Pin) *SPIInterface {
	cs.Set(true)
	return &SPIInterface{bus: bus, dc: dc, cs: cs}
}

func (s *SPIInterface) SendCommands(p []byte) error { return s.tx(false, p) }

func (s *SPIInterface) SendData(p []byte) error { return s.tx(true, p) }

func (s *SPIInterface) tx(data bool, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	s.dc.Set(data)
	s.cs.Set(false)
	err := s.bus.Tx(p, nil)
	s.cs.Set(true)
	return err
}

// Reset pulses the active-low reset line.
func Reset(rst Pin) {
	rst.Set(false)
	time.Sleep(time.Millisecond)
	rst.Set(true)
	time.Sleep(time.Millisecond)
}
