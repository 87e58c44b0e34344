package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"oledconsole-go/services/config"
	"oledconsole-go/services/console"
)

// board selects the embedded config; override with -ldflags "-X main.board=...".
var board = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	cfg, err := config.Embedded(board)
	if err != nil {
		halt("config", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx := context.Background()
	b, err := console.OpenBoard(ctx, cfg, console.Options{})
	if err != nil {
		halt("board", err)
	}
	if err := console.Run(ctx, b, cfg, logger); err != nil {
		halt("console", err)
	}
}

// halt parks the firmware after a bring-up failure.
func halt(stage string, err error) {
	for {
		println("fatal:", stage, err.Error())
		time.Sleep(5 * time.Second)
	}
}
