// Command notegate runs the session gate in front of the notes page renderer.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/notegate/app"
	"github.com/dmitrymomot/notegate/core/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notegate stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
