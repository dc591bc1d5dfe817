package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/app"
	"github.com/riskibarqy/matchday-sync/internal/interfaces/cli"
)

func main() {
	rt, err := app.StartRuntime("syncctl")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(func(ctx context.Context) (*app.App, error) {
		return app.New(ctx, rt.Config, rt.Logger)
	})
	runErr := root.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rt.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Warn("telemetry shutdown failed", "error", err)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "syncctl:", runErr)
		os.Exit(1)
	}
}
