// services/console/internal/platform/board.go
package platform

import (
	"io"

	"tinygo.org/x/tinyterm"

	"oledconsole-go/services/console/internal/halcore"
)

// Board is everything the console needs from the hardware.
type Board struct {
	Name string

	EncoderA halcore.IRQPin
	EncoderB halcore.IRQPin
	Button   halcore.IRQPin
	LEDGreen halcore.GPIOPin
	LEDRed   halcore.GPIOPin

	Display tinyterm.Displayer
	TX      io.Writer      // diagnostic echo
	RX      halcore.RXPort // console input
	Mirror  io.Writer      // optional copy of the terminal text

	Close func()
}

// Options carries host-side plumbing; MCU builds ignore most of it.
type Options struct {
	RX io.Reader // serial device to read console input from
	TX io.Writer // serial device to echo to
	// Mirror receives every terminal line (host stdout).
	Mirror io.Writer
}

func (b *Board) Shutdown() {
	if b.Close != nil {
		b.Close()
	}
}
