package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/worktracker/internal/buildinfo"
	"github.com/dmitrijs2005/worktracker/internal/logging"
	"github.com/dmitrijs2005/worktracker/internal/server"
	"github.com/dmitrijs2005/worktracker/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
