package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/cli"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/config"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/logging"
	"github.com/Vishhh2125/CollabNotes-frontend/internal/telemetry"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	shutdown, err := telemetry.Setup(ctx, "collabnotes-cli", cfg.OTLPEndpoint, cfg.OTLPInsecure)
	if err != nil {
		logger.Warn(ctx, "tracing disabled", "error", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "telemetry shutdown", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
