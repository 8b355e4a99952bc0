package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/worktracker/internal/buildinfo"
	"github.com/dmitrijs2005/worktracker/internal/client/cli"
	"github.com/dmitrijs2005/worktracker/internal/client/config"
	"github.com/dmitrijs2005/worktracker/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	if cli.Interactive() {
		buildinfo.PrintBuildData(os.Stdout)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
