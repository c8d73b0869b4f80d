package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kumarse1/KGV2/cmd"
	"github.com/kumarse1/KGV2/internal/observability"
)

func main() {
	// Cancel the run on SIGINT/SIGTERM so in-flight endpoint calls are
	// abandoned instead of hanging the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
