// services/config/config_test.go
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"oledconsole-go/errcode"
)

func TestEmbeddedConfigsParse(t *testing.T) {
	for _, board := range []string{"pico", "host"} {
		cfg, err := Embedded(board)
		require.NoError(t, err, board)
		require.Equal(t, board, cfg.Board)
		require.Equal(t, uint32(115200), cfg.UART.Baud)
		require.Equal(t, 100, cfg.Console.RXQueue)
	}
	pico, _ := Embedded("pico")
	require.Equal(t, uint8(0x7f), pico.Display.Contrast)
	require.Equal(t, 2, pico.Pins.EncoderA)
	require.True(t, pico.Console.StripCR)
}

func TestEmbeddedUnknownBoard(t *testing.T) {
	_, err := Embedded("nope")
	require.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestEmbeddedLookupOverride(t *testing.T) {
	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(board string) ([]byte, bool) {
		return []byte("board: bench\nuart: {baud: 9600}\n"), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })

	cfg, err := Embedded("anything")
	require.NoError(t, err)
	require.Equal(t, "bench", cfg.Board)
	require.Equal(t, uint32(9600), cfg.UART.Baud)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	require.Equal(t, "pico", cfg.Board)
	require.Equal(t, uint8(8), cfg.UART.DataBits)
	require.Equal(t, uint8(1), cfg.UART.StopBits)
	require.Equal(t, "none", cfg.UART.Parity)
	require.Equal(t, 64, cfg.UART.RXFIFO)
	require.Equal(t, 16, cfg.UART.RXChunk)
	require.Equal(t, 20, cfg.UART.IdleTimeoutMs)
	require.Equal(t, uint32(10), cfg.Display.RenderHz)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, DefaultPins, cfg.Pins)
}

func TestNormalizeClampsChunkToFIFO(t *testing.T) {
	cfg, err := Parse([]byte("uart: {rx_fifo: 8, rx_chunk: 64}"))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.UART.RXChunk)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"baud":     "uart: {baud: 12}",
		"databits": "uart: {data_bits: 12}",
		"parity":   "uart: {parity: mark}",
		"queue":    "console: {rx_queue: 5000}",
		"render":   "display: {render_hz: 5000}",
		"level":    "log: {level: loud}",
		"stats":    "log: {stats_interval_s: -1}",
		"pin":      "pins: {encoder_a: 40}",
		"dup pins": "pins: {encoder_a: 3, encoder_b: 3, button: -1, led_green: -1, led_red: -1, spi_sck: -1, spi_sdo: -1, oled_dc: -1, oled_cs: -1, oled_rst: -1, uart_tx: -1, uart_rx: -1}",
		"yaml":     "uart: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
		require.Equal(t, errcode.InvalidConfig, errcode.Of(err), name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "dev.yaml")
	require.NoError(t, os.WriteFile(p, []byte("board: host\ndisplay: {render_hz: 2}\n"), 0o644))
	cfg, err := Load(p, "pico")
	require.NoError(t, err)
	require.Equal(t, "host", cfg.Board)
	require.Equal(t, uint32(2), cfg.Display.RenderHz)

	_, err = Load(filepath.Join(dir, "missing.yaml"), "pico")
	require.Equal(t, errcode.InvalidConfig, errcode.Of(err))

	cfg, err = Load("", "pico")
	require.NoError(t, err)
	require.Equal(t, "pico", cfg.Board)
}

func TestSlogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	require.Equal(t, slog.LevelWarn, LogConfig{Level: "warn"}.SlogLevel())
	require.Equal(t, slog.LevelInfo, LogConfig{}.SlogLevel())
}
