package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/resilience"
)

const (
	WorkerTransportHTTP  = "http"
	WorkerTransportLocal = "local"
)

// Config stores runtime configuration for the api, scheduler and syncctl binaries.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	LogConsole              bool
	DBURL                   string
	DBDisablePreparedBinary bool
	ServiceToken            string
	CORSAllowedOrigins      []string
	MetricsEnabled          bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	APIFootballKey           string
	APIFootballBaseURL       string
	APIFootballTimeout       time.Duration
	APIFootballMaxRetries    int
	APIFootballRatePerMinute int
	APIFootballCircuit       resilience.CircuitBreakerConfig

	FootballDataToken   string
	FootballDataBaseURL string
	FootballDataTimeout time.Duration

	QuotaDailyLimit int

	WorkerTransport string
	WorkerBaseURL   string
	WorkerTimeout   time.Duration
	WorkerCircuit   resilience.CircuitBreakerConfig

	LiveLineupWindowBefore    time.Duration
	LiveLineupWindowAfter     time.Duration
	LineupManagerWindowBefore time.Duration
	LineupManagerWindowAfter  time.Duration
	StatsBacklogLimit         int
	MasterSyncLeagueIDs       []int64
	SquadSyncWorkers          int

	SchedulerLiveCron    string
	SchedulerLineupCron  string
	SchedulerMasterCron  string
	SchedulerPredictCron string

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:              appEnv,
		ServiceName:         getEnv("SERVICE_NAME", "matchday-sync"),
		ServiceVersion:      getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:            getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:            logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:               strings.TrimSpace(getEnv("DB_URL", "")),
		ServiceToken:        strings.TrimSpace(getEnv("SERVICE_TOKEN", "")),
		CORSAllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		APIFootballKey:      strings.TrimSpace(getEnv("API_FOOTBALL_KEY", "")),
		APIFootballBaseURL:  strings.TrimSpace(getEnv("API_FOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		FootballDataToken:   strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", "")),
		FootballDataBaseURL: strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")),
		WorkerBaseURL:       strings.TrimSpace(getEnv("WORKER_BASE_URL", "")),
		PprofAddr:           strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}

	if cfg.LogConsole, err = getEnvAsBool("APP_LOG_CONSOLE", appEnv == EnvDev); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "120s"); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.APIFootballTimeout, err = getEnvAsPositiveDuration("API_FOOTBALL_TIMEOUT", "20s"); err != nil {
		return Config{}, err
	}
	if cfg.APIFootballMaxRetries, err = getEnvAsInt("API_FOOTBALL_MAX_RETRIES", 0); err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_MAX_RETRIES: %w", err)
	}
	if cfg.APIFootballMaxRetries < 0 {
		return Config{}, fmt.Errorf("API_FOOTBALL_MAX_RETRIES must be >= 0")
	}
	if cfg.APIFootballRatePerMinute, err = getEnvAsInt("API_FOOTBALL_RATE_PER_MINUTE", 10); err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_RATE_PER_MINUTE: %w", err)
	}
	if cfg.APIFootballRatePerMinute <= 0 {
		return Config{}, fmt.Errorf("API_FOOTBALL_RATE_PER_MINUTE must be > 0")
	}
	if cfg.APIFootballCircuit, err = loadCircuit("API_FOOTBALL"); err != nil {
		return Config{}, err
	}
	if cfg.FootballDataTimeout, err = getEnvAsPositiveDuration("FOOTBALL_DATA_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.QuotaDailyLimit, err = getEnvAsInt("QUOTA_DAILY_LIMIT", 95); err != nil {
		return Config{}, fmt.Errorf("parse QUOTA_DAILY_LIMIT: %w", err)
	}
	if cfg.QuotaDailyLimit <= 0 {
		return Config{}, fmt.Errorf("QUOTA_DAILY_LIMIT must be > 0")
	}

	switch transport := strings.ToLower(strings.TrimSpace(getEnv("WORKER_TRANSPORT", WorkerTransportLocal))); transport {
	case WorkerTransportHTTP, WorkerTransportLocal:
		cfg.WorkerTransport = transport
	default:
		return Config{}, fmt.Errorf("invalid WORKER_TRANSPORT %q: valid values are %s, %s", transport, WorkerTransportHTTP, WorkerTransportLocal)
	}
	if cfg.WorkerTransport == WorkerTransportHTTP && cfg.WorkerBaseURL == "" {
		return Config{}, fmt.Errorf("WORKER_BASE_URL is required when WORKER_TRANSPORT=http")
	}
	if cfg.WorkerTimeout, err = getEnvAsPositiveDuration("WORKER_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.WorkerCircuit, err = loadCircuit("WORKER"); err != nil {
		return Config{}, err
	}

	if cfg.LiveLineupWindowBefore, err = getEnvAsPositiveDuration("LIVE_LINEUP_WINDOW_BEFORE", "30m"); err != nil {
		return Config{}, err
	}
	if cfg.LiveLineupWindowAfter, err = getEnvAsPositiveDuration("LIVE_LINEUP_WINDOW_AFTER", "50m"); err != nil {
		return Config{}, err
	}
	if cfg.LineupManagerWindowBefore, err = getEnvAsPositiveDuration("LINEUP_MANAGER_WINDOW_BEFORE", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.LineupManagerWindowAfter, err = getEnvAsPositiveDuration("LINEUP_MANAGER_WINDOW_AFTER", "60m"); err != nil {
		return Config{}, err
	}
	if cfg.StatsBacklogLimit, err = getEnvAsInt("STATS_BACKLOG_LIMIT", 5); err != nil {
		return Config{}, fmt.Errorf("parse STATS_BACKLOG_LIMIT: %w", err)
	}
	if cfg.StatsBacklogLimit <= 0 {
		return Config{}, fmt.Errorf("STATS_BACKLOG_LIMIT must be > 0")
	}
	if cfg.MasterSyncLeagueIDs, err = parseIntList(getEnv("MASTER_SYNC_LEAGUE_IDS", "")); err != nil {
		return Config{}, fmt.Errorf("parse MASTER_SYNC_LEAGUE_IDS: %w", err)
	}
	if cfg.SquadSyncWorkers, err = getEnvAsInt("SQUAD_SYNC_WORKERS", 2); err != nil {
		return Config{}, fmt.Errorf("parse SQUAD_SYNC_WORKERS: %w", err)
	}
	if cfg.SquadSyncWorkers <= 0 {
		return Config{}, fmt.Errorf("SQUAD_SYNC_WORKERS must be > 0")
	}

	schedules := []struct {
		key      string
		fallback string
		target   *string
	}{
		{"SCHEDULER_LIVE_CRON", "*/5 * * * *", &cfg.SchedulerLiveCron},
		{"SCHEDULER_LINEUP_CRON", "*/15 * * * *", &cfg.SchedulerLineupCron},
		{"SCHEDULER_MASTER_CRON", "0 0 * * *", &cfg.SchedulerMasterCron},
		{"SCHEDULER_PREDICT_CRON", "5 0 * * *", &cfg.SchedulerPredictCron},
	}
	for _, schedule := range schedules {
		spec := strings.TrimSpace(getEnv(schedule.key, schedule.fallback))
		if _, err := cron.ParseStandard(spec); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", schedule.key, err)
		}
		*schedule.target = spec
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", true); err != nil {
		return Config{}, err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
}

// RequireDatabase is checked by binaries that cannot run on memory repositories.
func (c Config) RequireDatabase() error {
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	return nil
}

func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()

	enabled, err := getEnvAsBool(prefix+"_CIRCUIT_ENABLED", defaults.Enabled)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	failures, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", defaults.FailureThreshold)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failures <= 0 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be > 0", prefix)
	}
	openTimeout, err := getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", defaults.OpenTimeout.String())
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpen, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpen <= 0 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0", prefix)
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failures,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	}, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseIntList reads a comma separated list of positive ids. An empty value
// yields nil so callers fall back to their built-in league set.
func parseIntList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("id must be > 0, got %d", value)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
