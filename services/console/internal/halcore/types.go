// services/console/internal/halcore/types.go
package halcore

import "context"

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on the MCU and must not block.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ---------------- UART abstractions ----------------

// RXPort is the receive half of a serial port. RecvSomeContext blocks until
// at least one byte is available or ctx is done.
type RXPort interface {
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

// UARTPort is a full-duplex serial port.
type UARTPort interface {
	RXPort
	Write(p []byte) (int, error)
}

// Vectors is the interrupt numbering of the board (STM32G0 layout, kept on
// every target so the task table is portable).
const (
	VectorEXTI0_1  = 5
	VectorEXTI2_3  = 6
	VectorEXTI4_15 = 7
	VectorTIM      = 13
	VectorUSART1   = 27
)
