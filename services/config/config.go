// services/config/config.go
package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"oledconsole-go/errcode"
)

// Config is the whole device configuration.
type Config struct {
	Board   string        `yaml:"board"`
	Pins    PinConfig     `yaml:"pins"`
	UART    UARTConfig    `yaml:"uart"`
	Display DisplayConfig `yaml:"display"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
}

// ---- PINS ----

type PinConfig struct {
	EncoderA int `yaml:"encoder_a"`
	EncoderB int `yaml:"encoder_b"`
	Button   int `yaml:"button"`
	LEDGreen int `yaml:"led_green"`
	LEDRed   int `yaml:"led_red"`

	SPISCK  int `yaml:"spi_sck"`
	SPISDO  int `yaml:"spi_sdo"`
	OLEDDC  int `yaml:"oled_dc"`
	OLEDCS  int `yaml:"oled_cs"`
	OLEDRST int `yaml:"oled_rst"`

	UARTTX int `yaml:"uart_tx"`
	UARTRX int `yaml:"uart_rx"`
}

// ---- SERIAL ----

type UARTConfig struct {
	Baud     uint32 `yaml:"baud"`
	DataBits uint8  `yaml:"data_bits"`
	StopBits uint8  `yaml:"stop_bits"`
	Parity   string `yaml:"parity"` // none | even | odd

	RXFIFO        int `yaml:"rx_fifo"`         // receive FIFO depth (bytes)
	RXChunk       int `yaml:"rx_chunk"`        // FIFO-threshold batch
	IdleTimeoutMs int `yaml:"idle_timeout_ms"` // receive timeout after traffic
}

// ---- DISPLAY ----

type DisplayConfig struct {
	SPIHz     uint32 `yaml:"spi_hz"`
	Contrast  uint8  `yaml:"contrast"`
	Rotate180 bool   `yaml:"rotate180"`
	RenderHz  uint32 `yaml:"render_hz"` // timer task rate
}

// ---- CONSOLE ----

type ConsoleConfig struct {
	StripCR bool   `yaml:"strip_cr"`
	RXQueue int    `yaml:"rx_queue"` // deferred rx_line capacity
	Banner  string `yaml:"banner"`
}

type LogConfig struct {
	Level          string `yaml:"level"`            // debug | info | warn | error
	StatsIntervalS int    `yaml:"stats_interval_s"` // 0 disables the heartbeat
}

// SlogLevel maps Level onto slog; unknown values read as info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Parse decodes a YAML document, then validates and normalises it.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.parse", Err: err, Msg: err.Error()}
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	return cfg, nil
}

// Embedded returns the built-in configuration of board.
func Embedded(board string) (Config, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Config{}, errcode.New("config.embedded", errcode.InvalidConfig, "no embedded config for board: "+board)
	}
	return Parse(raw)
}

// Load reads a YAML file. An empty path selects the embedded config of
// board.
func Load(path, board string) (Config, error) {
	if path == "" {
		return Embedded(board)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.load", Msg: path, Err: err}
	}
	return Parse(raw)
}
