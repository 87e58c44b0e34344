// services/config/normalize.go
package config

import "oledconsole-go/x/mathx"

// DefaultPins is the Pico wiring.
var DefaultPins = PinConfig{
	EncoderA: 2, EncoderB: 3, Button: 4, LEDGreen: 25, LEDRed: 15,
	SPISCK: 18, SPISDO: 19, OLEDDC: 20, OLEDCS: 17, OLEDRST: 21,
	UARTTX: 0, UARTRX: 1,
}

// Normalize fills defaults and clamps derived sizes.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Board = coalesce(cfg.Board, "pico")
	if cfg.Pins == (PinConfig{}) {
		cfg.Pins = DefaultPins
	}

	u := &cfg.UART
	if u.Baud == 0 {
		u.Baud = 115200
	}
	if u.DataBits == 0 {
		u.DataBits = 8
	}
	if u.StopBits == 0 {
		u.StopBits = 1
	}
	u.Parity = coalesce(u.Parity, "none")
	if u.RXFIFO == 0 {
		u.RXFIFO = 64
	}
	u.RXFIFO = mathx.Clamp(u.RXFIFO, 1, 4096)
	if u.RXChunk == 0 {
		u.RXChunk = 16
	}
	u.RXChunk = mathx.Clamp(u.RXChunk, 1, u.RXFIFO)
	if u.IdleTimeoutMs == 0 {
		u.IdleTimeoutMs = 20
	}
	u.IdleTimeoutMs = mathx.Clamp(u.IdleTimeoutMs, 1, 2000)

	d := &cfg.Display
	if d.SPIHz == 0 {
		d.SPIHz = 8_000_000
	}
	if d.RenderHz == 0 {
		d.RenderHz = 10
	}

	if cfg.Console.RXQueue == 0 {
		cfg.Console.RXQueue = 100
	}
	cfg.Log.Level = coalesce(cfg.Log.Level, "info")
}

func coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
