package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/cesworks/fieldcheck/internal/server"
	"github.com/cesworks/fieldcheck/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run error: %v", err)
	}
}
