package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/app"
	"github.com/riskibarqy/matchday-sync/internal/interfaces/scheduler"
)

func main() {
	rt, err := app.StartRuntime("scheduler")
	if err != nil {
		panic(err)
	}
	logger := rt.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, rt.Config, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	s, err := scheduler.New(a.ScheduledJobs(), logger)
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}
	s.Start()
	logger.Info("scheduler started", "worker_transport", rt.Config.WorkerTransport)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler stop timed out", "error", err)
	}
	if err := rt.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}

	logger.Info("scheduler stopped")
}
