package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/matchday-sync/internal/config"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

// InitUptrace configures the global OpenTelemetry providers for Uptrace.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !uptraceActive(cfg) {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", strings.TrimSpace(cfg.UptraceDSN) != "")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return uptrace.Shutdown, nil
}

// WithUptraceLogs tees logger into the OTel log pipeline when Uptrace log
// export is on; otherwise logger is returned unchanged.
func WithUptraceLogs(cfg config.Config, logger *logging.Logger) *logging.Logger {
	if !uptraceActive(cfg) || !cfg.UptraceLogsEnabled {
		return logger
	}
	return logger.Tee(NewOTelLogCore(cfg.ServiceVersion, cfg.LogLevel))
}

func uptraceActive(cfg config.Config) bool {
	return cfg.UptraceEnabled && strings.TrimSpace(cfg.UptraceDSN) != ""
}
