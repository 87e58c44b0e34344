// Package ssd1362 encodes SSD1362 OLED controller commands and drives a
// 256x64 4-bit grayscale panel through a command/data interface.
package ssd1362

// Kind tags a Command.
type Kind uint8

const (
	KindColumnAddress Kind = iota
	KindRowAddress
	KindContrast
	KindRemap
	KindStartLine
	KindDisplayOffset
	KindVScrollArea
	KindMode
	KindMultiplex
	KindInternalVDD
	KindInternalIREF
	KindDisplayOn
	KindPhaseLength
	KindDisplayClockDiv
	KindPreChargePeriod
	KindDefaultGrayScale
	KindPreChargeVoltage
	KindPreChargeCapacitor
	KindVcomhDeselect
	KindCommandLock
	numKinds
)

var kindNames = [numKinds]string{
	"column_address", "row_address", "contrast", "remap", "start_line",
	"display_offset", "vscroll_area", "mode", "multiplex", "internal_vdd",
	"internal_iref", "display_on", "phase_length", "display_clock_div",
	"precharge_period", "default_grayscale", "precharge_voltage",
	"precharge_capacitor", "vcomh_deselect", "command_lock",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// DisplayMode selects what the panel shows regardless of RAM contents.
type DisplayMode uint8

const (
	ModeNormal DisplayMode = iota
	ModeAllOn
	ModeAllOff
	ModeInverse
)

// VcomhLevel is the COM deselect voltage as a fraction of Vcc.
type VcomhLevel uint8

const (
	Vcomh072 VcomhLevel = 0b000
	Vcomh082 VcomhLevel = 0b101
	Vcomh086 VcomhLevel = 0b111
)

// Command is one controller operation with up to two parameters. Build it
// with the constructors below; the zero value is ColumnAddress(0, 0).
type Command struct {
	kind Kind
	p0   byte
	p1   byte
}

// ColumnAddress sets the column window (0..0x7F, two pixels per column).
func ColumnAddress(start, end uint8) Command {
	return Command{KindColumnAddress, start, end}
}

// RowAddress sets the row window (0..0x3F).
func RowAddress(start, end uint8) Command { return Command{KindRowAddress, start, end} }

func Contrast(level uint8) Command  { return Command{kind: KindContrast, p0: level} }
func Remap(flags uint8) Command     { return Command{kind: KindRemap, p0: flags} }
func StartLine(line uint8) Command  { return Command{kind: KindStartLine, p0: line} }
func DisplayOffset(n uint8) Command { return Command{kind: KindDisplayOffset, p0: n} }

// VScrollArea sets the rows above the scroll area and the rows that scroll.
func VScrollArea(above, lines uint8) Command {
	return Command{KindVScrollArea, above, lines}
}

func Mode(m DisplayMode) Command { return Command{kind: KindMode, p0: byte(m) & 0x3} }

// Multiplex sets the mux ratio (MUX-1, 3..63).
func Multiplex(ratio uint8) Command { return Command{kind: KindMultiplex, p0: ratio} }

func InternalVDD(on bool) Command  { return Command{kind: KindInternalVDD, p0: b2u(on)} }
func InternalIREF(on bool) Command { return Command{kind: KindInternalIREF, p0: b2u(on)} }
func DisplayOn(on bool) Command    { return Command{kind: KindDisplayOn, p0: b2u(on)} }

func PhaseLength(v uint8) Command { return Command{kind: KindPhaseLength, p0: v} }

// DisplayClockDiv packs the oscillator frequency (high nibble) and the
// divide ratio minus one (low nibble). Values above 15 are masked.
func DisplayClockDiv(fosc, div uint8) Command {
	return Command{KindDisplayClockDiv, fosc, div}
}

func PreChargePeriod(v uint8) Command { return Command{kind: KindPreChargePeriod, p0: v} }

// DefaultGrayScale restores the linear gray lookup table.
func DefaultGrayScale() Command { return Command{kind: KindDefaultGrayScale} }

func PreChargeVoltage(v uint8) Command { return Command{kind: KindPreChargeVoltage, p0: v} }

func PreChargeCapacitor(external bool) Command {
	return Command{kind: KindPreChargeCapacitor, p0: b2u(external)}
}

func VcomhDeselect(l VcomhLevel) Command { return Command{kind: KindVcomhDeselect, p0: byte(l)} }

// CommandLock makes the controller ignore every command except unlock.
func CommandLock(lock bool) Command { return Command{kind: KindCommandLock, p0: b2u(lock)} }

func b2u(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func (c Command) Kind() Kind { return c.kind }

// Frame is an encoded command: opcode first, then parameters.
type Frame struct {
	Bytes [3]byte
	Len   int
}

// Slice returns the bytes to put on the wire.
func (f *Frame) Slice() []byte { return f.Bytes[:f.Len] }

func frame(b ...byte) Frame {
	var f Frame
	f.Len = copy(f.Bytes[:], b)
	return f
}

// Encode returns the wire bytes of c. It is total: every Command encodes.
func (c Command) Encode() Frame {
	switch c.kind {
	case KindColumnAddress:
		return frame(0x15, c.p0, c.p1)
	case KindRowAddress:
		return frame(0x75, c.p0, c.p1)
	case KindContrast:
		return frame(0x81, c.p0)
	case KindRemap:
		return frame(0xA0, c.p0)
	case KindStartLine:
		return frame(0xA1, c.p0)
	case KindDisplayOffset:
		return frame(0xA2, c.p0)
	case KindVScrollArea:
		return frame(0xA3, c.p0, c.p1)
	case KindMode:
		return frame(0xA4 | c.p0&0x3)
	case KindMultiplex:
		return frame(0xA8, c.p0)
	case KindInternalVDD:
		return frame(0xAB, c.p0&1)
	case KindInternalIREF:
		return frame(0xAD, 0x8E|(c.p0&1)<<4)
	case KindDisplayOn:
		return frame(0xAE | c.p0&1)
	case KindPhaseLength:
		return frame(0xB1, c.p0)
	case KindDisplayClockDiv:
		return frame(0xB3, (c.p0&0xF)<<4|c.p1&0xF)
	case KindPreChargePeriod:
		return frame(0xB6, c.p0)
	case KindDefaultGrayScale:
		return frame(0xB9)
	case KindPreChargeVoltage:
		return frame(0xBC, c.p0)
	case KindPreChargeCapacitor:
		return frame(0xBD, c.p0&1)
	case KindVcomhDeselect:
		return frame(0xBE, c.p0)
	case KindCommandLock:
		return frame(0xFD, 0x12|(c.p0&1)<<2)
	}
	return Frame{}
}

// Opcode returns the first wire byte.
func (c Command) Opcode() byte { return c.Encode().Bytes[0] }

// Interface is the bus glue: command bytes and data bytes are told apart
// by the D/C line, which is the implementation's business.
type Interface interface {
	SendCommands(p []byte) error
	SendData(p []byte) error
}

// Send encodes c and writes it as command bytes.
func (c Command) Send(iface Interface) error {
	f := c.Encode()
	return iface.SendCommands(f.Slice())
}

// SendAll writes cmds in order and stops at the first error.
func SendAll(iface Interface, cmds []Command) error {
	for _, c := range cmds {
		if err := c.Send(iface); err != nil {
			return err
		}
	}
	return nil
}
