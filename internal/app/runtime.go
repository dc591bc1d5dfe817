package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-sync/internal/config"
	"github.com/riskibarqy/matchday-sync/internal/observability"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

// Runtime is the process plumbing every binary starts with: config, the
// service logger and the optional telemetry exporters.
type Runtime struct {
	Config config.Config
	Logger *logging.Logger

	shutdown []func(context.Context) error
}

// StartRuntime loads configuration and starts telemetry for binary.
func StartRuntime(binary string) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
		Service: cfg.ServiceName,
		Env:     cfg.AppEnv,
	})

	rt := &Runtime{Config: cfg}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	rt.shutdown = append(rt.shutdown, shutdownTracing)

	logger = observability.WithUptraceLogs(cfg, logger).With("binary", binary)
	logging.SetDefault(logger)
	rt.Logger = logger

	stopProfiler, err := observability.InitPyroscope(cfg, binary, logger)
	if err != nil {
		logger.Warn("pyroscope start failed", "error", err)
	} else {
		rt.shutdown = append(rt.shutdown, func(context.Context) error { return stopProfiler() })
	}

	if srv := observability.StartPprofServer(cfg, logger); srv != nil {
		rt.shutdown = append(rt.shutdown, func(ctx context.Context) error {
			return observability.StopPprofServer(ctx, srv)
		})
	}

	return rt, nil
}

// Shutdown stops exporters in reverse start order and flushes the logger.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.shutdown) - 1; i >= 0; i-- {
		if err := r.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = r.Logger.Sync()
	return errors.Join(errs...)
}
