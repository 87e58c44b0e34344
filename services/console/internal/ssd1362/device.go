package ssd1362

import "image/color"

const (
	Width  = 256
	Height = 64

	bufLen = Width * Height / 2
)

// PowerOn is the register set written after reset, leaving the panel off.
// Remap 0x43 enables column and nibble remap with COM remap for the usual
// module orientation.
var PowerOn = []Command{
	InternalVDD(true),
	InternalIREF(true),
	ColumnAddress(0, Width/2-1),
	RowAddress(0, Height-1),
	Remap(0x43),
	StartLine(0),
	DisplayOffset(0),
	Mode(ModeNormal),
	Multiplex(Height - 1),
	PhaseLength(0x11),
	DisplayClockDiv(0xF, 0x0),
	DefaultGrayScale(),
	PreChargeVoltage(0x04),
	VcomhDeselect(Vcomh082),
}

type Config struct {
	Rotate180 bool
	Contrast  uint8 // 0 keeps the power-on default
}

// Device is a framebuffered SSD1362 panel. Pixels are 4-bit gray, two per
// byte with the left pixel in the high nibble.
type Device struct {
	bus Interface
	cfg Config
	buf [bufLen]byte
}

func New(bus Interface) *Device {
	return &Device{bus: bus}
}

// Configure writes the power-on registers, clears the panel and turns it on.
func (d *Device) Configure(cfg Config) error {
	d.cfg = cfg
	if err := SendAll(d.bus, PowerOn); err != nil {
		return err
	}
	if cfg.Contrast != 0 {
		if err := Contrast(cfg.Contrast).Send(d.bus); err != nil {
			return err
		}
	}
	d.ClearBuffer()
	if err := d.Display(); err != nil {
		return err
	}
	return DisplayOn(true).Send(d.bus)
}

func (d *Device) Size() (x, y int16) { return Width, Height }

// SetPixel maps c to a gray level by luma. Out-of-range points are ignored.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	d.setGray(x, y, Gray(c))
}

func (d *Device) setGray(x, y int16, g uint8) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	if d.cfg.Rotate180 {
		x, y = Width-1-x, Height-1-y
	}
	i := int(y)*(Width/2) + int(x)/2
	if x&1 == 0 {
		d.buf[i] = d.buf[i]&0x0F | g<<4
	} else {
		d.buf[i] = d.buf[i]&0xF0 | g&0x0F
	}
}

// GetPixel returns the 4-bit gray level at x, y.
func (d *Device) GetPixel(x, y int16) uint8 {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return 0
	}
	if d.cfg.Rotate180 {
		x, y = Width-1-x, Height-1-y
	}
	b := d.buf[int(y)*(Width/2)+int(x)/2]
	if x&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// FillRectangle paints a clipped rectangle. Empty rectangles are a no-op.
func (d *Device) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	g := Gray(c)
	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			d.setGray(i, j, g)
		}
	}
	return nil
}

// SetScroll is a no-op; callers use software scrolling.
func (d *Device) SetScroll(line int16) {}

func (d *Device) ClearBuffer() {
	for i := range d.buf {
		d.buf[i] = 0
	}
}

// Display writes the whole framebuffer to display RAM.
func (d *Device) Display() error {
	if err := ColumnAddress(0, Width/2-1).Send(d.bus); err != nil {
		return err
	}
	if err := RowAddress(0, Height-1).Send(d.bus); err != nil {
		return err
	}
	return d.bus.SendData(d.buf[:])
}

// Buffer exposes the packed framebuffer.
func (d *Device) Buffer() []byte { return d.buf[:] }

// Gray converts c to a 4-bit level using integer BT.601 weights.
func Gray(c color.RGBA) uint8 {
	y := (uint32(c.R)*77 + uint32(c.G)*150 + uint32(c.B)*29) >> 8
	return uint8(y >> 4)
}
