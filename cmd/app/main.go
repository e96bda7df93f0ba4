package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hotelbooking/api"
	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/bootstrap"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log := bootstrap.NewLogger(cfg.Log, os.Stdout)
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatalf("start: %v", err)
	}

	router := api.NewRouter(app.Ledger, rooms.NewRoomService(app.Ledger), log)
	runErr := bootstrap.Run(ctx, cfg, router, log)

	if err := app.Close(context.Background()); err != nil {
		log.WithError(err).Error("flush bookings")
	}
	if runErr != nil {
		log.Fatalf("server error: %v", runErr)
	}
}
