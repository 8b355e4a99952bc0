package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/worktracker/internal/trackerctl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := trackerctl.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
