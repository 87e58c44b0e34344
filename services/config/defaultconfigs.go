package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (-board flag on host, build default on the MCU)
// Val: raw YAML for that board
// -----------------------------------------------------------------------------

const cfgPico = `
board: pico
pins:
  encoder_a: 2
  encoder_b: 3
  button: 4
  led_green: 25
  led_red: 15
  spi_sck: 18
  spi_sdo: 19
  oled_dc: 20
  oled_cs: 17
  oled_rst: 21
  uart_tx: 0
  uart_rx: 1
uart:
  baud: 115200
  data_bits: 8
  stop_bits: 1
  parity: none
  rx_fifo: 64
  rx_chunk: 16
  idle_timeout_ms: 20
display:
  spi_hz: 8000000
  contrast: 0x7f
  rotate180: false
  render_hz: 10
console:
  strip_cr: true
  rx_queue: 100
  banner: "oledconsole ready"
log:
  level: info
  stats_interval_s: 30
`

const cfgHost = `
board: host
pins:
  encoder_a: 2
  encoder_b: 3
  button: 4
  led_green: 25
  led_red: 15
  spi_sck: -1
  spi_sdo: -1
  oled_dc: -1
  oled_cs: -1
  oled_rst: -1
  uart_tx: -1
  uart_rx: -1
uart:
  baud: 115200
  rx_fifo: 256
  rx_chunk: 32
  idle_timeout_ms: 50
display:
  render_hz: 5
console:
  strip_cr: true
  rx_queue: 100
  banner: "oledconsole host simulation"
log:
  level: debug
  stats_interval_s: 10
`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
