package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.QuotaDailyLimit != 95 {
		t.Fatalf("unexpected QuotaDailyLimit: %d", cfg.QuotaDailyLimit)
	}
	if cfg.APIFootballMaxRetries != 0 {
		t.Fatalf("expected no retries by default, got %d", cfg.APIFootballMaxRetries)
	}
	if cfg.APIFootballRatePerMinute != 10 {
		t.Fatalf("unexpected APIFootballRatePerMinute: %d", cfg.APIFootballRatePerMinute)
	}
	if cfg.WorkerTransport != WorkerTransportLocal {
		t.Fatalf("unexpected WorkerTransport: %q", cfg.WorkerTransport)
	}
	if cfg.LiveLineupWindowBefore != 30*time.Minute || cfg.LiveLineupWindowAfter != 50*time.Minute {
		t.Fatalf("unexpected live lineup window: %s/%s", cfg.LiveLineupWindowBefore, cfg.LiveLineupWindowAfter)
	}
	if cfg.LineupManagerWindowBefore != 10*time.Minute || cfg.LineupManagerWindowAfter != 60*time.Minute {
		t.Fatalf("unexpected lineup manager window: %s/%s", cfg.LineupManagerWindowBefore, cfg.LineupManagerWindowAfter)
	}
	if cfg.StatsBacklogLimit != 5 {
		t.Fatalf("unexpected StatsBacklogLimit: %d", cfg.StatsBacklogLimit)
	}
	if cfg.MasterSyncLeagueIDs != nil {
		t.Fatalf("expected nil league override, got %v", cfg.MasterSyncLeagueIDs)
	}
	if cfg.SchedulerLiveCron != "*/5 * * * *" {
		t.Fatalf("unexpected SchedulerLiveCron: %q", cfg.SchedulerLiveCron)
	}
	if cfg.LogConsole {
		t.Fatalf("expected JSON logs outside dev")
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if !cfg.APIFootballCircuit.Enabled || cfg.APIFootballCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg.APIFootballCircuit)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_WorkerTransport(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("WORKER_TRANSPORT", "grpc")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown WORKER_TRANSPORT")
		}
	})

	t.Run("http requires base url", func(t *testing.T) {
		t.Setenv("WORKER_TRANSPORT", "http")
		t.Setenv("WORKER_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when WORKER_TRANSPORT=http without WORKER_BASE_URL")
		}
	})

	t.Run("http with base url", func(t *testing.T) {
		t.Setenv("WORKER_TRANSPORT", " HTTP ")
		t.Setenv("WORKER_BASE_URL", "https://workers.example.com")
		t.Setenv("WORKER_TIMEOUT", "90s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WorkerTransport != WorkerTransportHTTP {
			t.Fatalf("unexpected WorkerTransport: %q", cfg.WorkerTransport)
		}
		if cfg.WorkerTimeout != 90*time.Second {
			t.Fatalf("unexpected WorkerTimeout: %s", cfg.WorkerTimeout)
		}
	})
}

func TestLoad_QuotaLimitMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QUOTA_DAILY_LIMIT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for QUOTA_DAILY_LIMIT=0")
	}
}

func TestLoad_MasterSyncLeagueIDs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("parses list", func(t *testing.T) {
		t.Setenv("MASTER_SYNC_LEAGUE_IDS", " 39, 140 ,,2")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		want := []int64{39, 140, 2}
		if len(cfg.MasterSyncLeagueIDs) != len(want) {
			t.Fatalf("unexpected league ids: %v", cfg.MasterSyncLeagueIDs)
		}
		for i := range want {
			if cfg.MasterSyncLeagueIDs[i] != want[i] {
				t.Fatalf("unexpected league ids: %v", cfg.MasterSyncLeagueIDs)
			}
		}
	})

	t.Run("rejects non positive", func(t *testing.T) {
		t.Setenv("MASTER_SYNC_LEAGUE_IDS", "39,-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative league id")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Setenv("MASTER_SYNC_LEAGUE_IDS", "39,epl")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non numeric league id")
		}
	})
}

func TestLoad_SchedulerCronValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCHEDULER_MASTER_CRON", "every day")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid SCHEDULER_MASTER_CRON")
	}
}

func TestLoad_CircuitConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_CIRCUIT_ENABLED", "false")
	t.Setenv("API_FOOTBALL_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "45s")
	t.Setenv("API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	got := cfg.APIFootballCircuit
	if got.Enabled || got.FailureThreshold != 3 || got.OpenTimeout != 45*time.Second || got.HalfOpenMaxReq != 2 {
		t.Fatalf("unexpected circuit config: %+v", got)
	}

	t.Setenv("WORKER_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for WORKER_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_PprofRequiresAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SERVICE_NAME", "matchday-sync-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "matchday-sync-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestConfig_RequireDatabase(t *testing.T) {
	if err := (Config{}).RequireDatabase(); err == nil {
		t.Fatalf("expected error without DB_URL")
	}
	if err := (Config{DBURL: "postgres://localhost/matchday"}).RequireDatabase(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_CacheTTLMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CACHE_TTL=0s")
	}
}
