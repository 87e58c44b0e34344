// cmd/hostsim/main.go
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goburrow/serial"

	"oledconsole-go/services/config"
	"oledconsole-go/services/console"
	"oledconsole-go/x/timex"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (default: embedded)")
	board := flag.String("board", "host", "embedded config to use when -config is empty")
	port := flag.String("port", "", "serial device for console input (default: stdin)")
	baud := flag.Int("baud", 0, "override uart.baud")
	demo := flag.Duration("demo", 0, "spin the emulated encoder at this period (0: off)")
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath, *board)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *baud > 0 {
		cfg.UART.Baud = uint32(*baud)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- serial plumbing ----
	var rx io.Reader = os.Stdin
	var tx io.Writer = os.Stderr
	if *port != "" {
		p, err := serial.Open(&serial.Config{
			Address:  *port,
			BaudRate: int(cfg.UART.Baud),
			DataBits: int(cfg.UART.DataBits),
			StopBits: int(cfg.UART.StopBits),
			Parity:   parity(cfg.UART.Parity),
			Timeout:  timex.Ms(cfg.UART.IdleTimeoutMs),
		})
		if err != nil {
			log.Fatalf("serial open failed (port=%s): %v", *port, err)
		}
		defer p.Close()
		rx, tx = p, p
		logger.Info("serial:open", slog.String("port", *port), slog.Uint64("baud", uint64(cfg.UART.Baud)))
	}

	// ---- board + console ----
	b, err := console.OpenBoard(ctx, cfg, console.Options{RX: rx, TX: tx, Mirror: os.Stdout})
	if err != nil {
		log.Fatalf("board open failed (board=%s): %v", cfg.Board, err)
	}
	defer b.Shutdown()

	if *demo > 0 {
		go console.Demo(ctx, b, *demo)
	}
	if err := console.Run(ctx, b, cfg, logger); err != nil {
		log.Fatalf("console failed: %v", err)
	}
}

// parity maps the config spelling onto goburrow/serial's.
func parity(s string) string {
	switch strings.ToLower(s) {
	case "even":
		return "E"
	case "odd":
		return "O"
	}
	return "N"
}
