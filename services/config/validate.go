// services/config/validate.go
package config

import (
	"oledconsole-go/errcode"
	"oledconsole-go/x/conv"
	"oledconsole-go/x/mathx"
)

func invalid(field string, v int64) error {
	var b [20]byte
	return errcode.New("config.validate", errcode.InvalidConfig, field+" out of range: "+string(conv.Itoa(b[:], v)))
}

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
// Zero values mean "use the default" and always pass.
func Validate(cfg *Config) error {
	u := cfg.UART
	if u.Baud != 0 && !mathx.Between(u.Baud, 1200, 4_000_000) {
		return invalid("uart.baud", int64(u.Baud))
	}
	if u.DataBits != 0 && !mathx.Between(u.DataBits, 5, 9) {
		return invalid("uart.data_bits", int64(u.DataBits))
	}
	if u.StopBits != 0 && !mathx.Between(u.StopBits, 1, 2) {
		return invalid("uart.stop_bits", int64(u.StopBits))
	}
	switch u.Parity {
	case "", "none", "even", "odd":
	default:
		return errcode.New("config.validate", errcode.InvalidConfig, "uart.parity must be none, even or odd")
	}
	if u.RXFIFO < 0 || u.RXChunk < 0 || u.IdleTimeoutMs < 0 {
		return errcode.New("config.validate", errcode.InvalidConfig, "uart sizes must not be negative")
	}

	if q := cfg.Console.RXQueue; q != 0 && !mathx.Between(q, 1, 1024) {
		return invalid("console.rx_queue", int64(q))
	}
	if hz := cfg.Display.RenderHz; hz > 1000 {
		return invalid("display.render_hz", int64(hz))
	}
	if s := cfg.Log.StatsIntervalS; !mathx.Between(s, 0, 3600) {
		return invalid("log.stats_interval_s", int64(s))
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errcode.New("config.validate", errcode.InvalidConfig, "log.level unknown: "+cfg.Log.Level)
	}

	// Pins: -1 means unused; otherwise 0..29 and distinct. An absent
	// section takes DefaultPins.
	if cfg.Pins == (PinConfig{}) {
		return nil
	}
	seen := map[int]string{}
	for _, p := range cfg.Pins.list() {
		if p.n < 0 {
			continue
		}
		if p.n > 29 {
			return invalid("pins."+p.name, int64(p.n))
		}
		if prev, dup := seen[p.n]; dup {
			return errcode.New("config.validate", errcode.InvalidConfig, "pins."+p.name+" reuses pin of pins."+prev)
		}
		seen[p.n] = p.name
	}
	return nil
}

type namedPin struct {
	name string
	n    int
}

func (p PinConfig) list() []namedPin {
	return []namedPin{
		{"encoder_a", p.EncoderA}, {"encoder_b", p.EncoderB}, {"button", p.Button},
		{"led_green", p.LEDGreen}, {"led_red", p.LEDRed},
		{"spi_sck", p.SPISCK}, {"spi_sdo", p.SPISDO},
		{"oled_dc", p.OLEDDC}, {"oled_cs", p.OLEDCS}, {"oled_rst", p.OLEDRST},
		{"uart_tx", p.UARTTX}, {"uart_rx", p.UARTRX},
	}
}
