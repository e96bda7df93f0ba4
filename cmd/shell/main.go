package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/bootstrap"
	"github.com/Domenick1991/hotelbooking/internal/shell"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	// stdout belongs to the menu.
	log := bootstrap.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatalf("start: %v", err)
	}

	runErr := shell.New(app.Ledger, os.Stdin, os.Stdout).Run(ctx)

	if err := app.Close(context.Background()); err != nil {
		log.WithError(err).Error("flush bookings")
		os.Exit(1)
	}
	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("shell: %v", runErr)
	}
}
