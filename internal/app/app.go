package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/external/apifootball"
	"github.com/riskibarqy/matchday-sync/external/footballdata"
	"github.com/riskibarqy/matchday-sync/external/workerclient"
	"github.com/riskibarqy/matchday-sync/internal/config"
	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	"github.com/riskibarqy/matchday-sync/internal/domain/leaguestanding"
	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	"github.com/riskibarqy/matchday-sync/internal/domain/player"
	"github.com/riskibarqy/matchday-sync/internal/domain/playerstats"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	"github.com/riskibarqy/matchday-sync/internal/domain/teammapping"
	"github.com/riskibarqy/matchday-sync/internal/domain/teamstats"
	repocache "github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday-sync/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

type Repositories struct {
	Fixtures    fixture.Repository
	Lineups     lineup.Repository
	TeamStats   teamstats.Repository
	PlayerStats playerstats.Repository
	Players     player.Repository
	Teams       team.Repository
	Leagues     league.Repository
	Mappings    teammapping.Repository
	Standings   leaguestanding.Repository
	Quota       quota.Repository
	DetailCache detailcache.Repository
	Dispatches  jobscheduler.Repository
}

func NewPostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Fixtures:    postgres.NewFixtureRepository(db),
		Lineups:     postgres.NewLineupRepository(db),
		TeamStats:   postgres.NewTeamStatsRepository(db),
		PlayerStats: postgres.NewPlayerStatsRepository(db),
		Players:     postgres.NewPlayerRepository(db),
		Teams:       postgres.NewTeamRepository(db),
		Leagues:     postgres.NewLeagueRepository(db),
		Mappings:    postgres.NewTeamMappingRepository(db),
		Standings:   postgres.NewLeagueStandingRepository(db),
		Quota:       postgres.NewQuotaRepository(db),
		DetailCache: postgres.NewDetailCacheRepository(db),
		Dispatches:  postgres.NewJobDispatchRepository(db),
	}
}

// NewMemoryRepositories backs a local run without DB_URL. Nothing survives a
// restart, including the quota counter.
func NewMemoryRepositories() Repositories {
	players := memory.NewPlayerRepository()
	return Repositories{
		Fixtures:    memory.NewFixtureRepository(nil),
		Lineups:     memory.NewLineupRepository(players),
		TeamStats:   memory.NewTeamStatsRepository(),
		PlayerStats: memory.NewPlayerStatsRepository(players),
		Players:     players,
		Teams:       memory.NewTeamRepository(nil),
		Leagues:     memory.NewLeagueRepository(),
		Mappings:    memory.NewTeamMappingRepository(nil),
		Standings:   memory.NewStandingRepository(),
		Quota:       memory.NewQuotaRepository(),
		DetailCache: memory.NewDetailCacheRepository(),
		Dispatches:  memory.NewJobDispatchRepository(),
	}
}

// WithReadCache puts an in-process read-through layer in front of the
// repositories that are read far more often than written.
func (r Repositories) WithReadCache(ttl time.Duration) Repositories {
	r.DetailCache = repocache.NewDetailCacheRepository(r.DetailCache, ttl)
	r.Teams = repocache.NewTeamRepository(r.Teams, ttl)
	r.Leagues = repocache.NewLeagueRepository(r.Leagues, ttl)
	return r
}

// App holds every wired service of one process. The api, scheduler and
// syncctl binaries all start from New and use the parts they need.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Metrics *metrics.Recorder
	Repos   Repositories

	Ledger         *usecase.QuotaLedger
	LocalWorkers   *usecase.LocalWorkerInvoker
	Invoker        usecase.WorkerInvoker
	DetailCache    *usecase.DetailCacheService
	DayMatches     *usecase.DayMatchesService
	PlayerLookup   *usecase.PlayerLookup
	LiveManager    *usecase.LiveManager
	LineupManager  *usecase.LineupManager
	UsagePredictor *usecase.UsagePredictionService
	MasterSync     *usecase.MasterSync
	Catalog        *usecase.CatalogSync
	TeamMapping    *usecase.TeamMappingService
	Standings      *usecase.StandingsSync

	db *sqlx.DB
}

// New wires the process against Postgres when DB_URL is set and against
// memory repositories otherwise.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}

	a := &App{Config: cfg, Logger: logger, Metrics: recorder}
	if cfg.DBURL != "" {
		db, err := OpenDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.Repos = NewPostgresRepositories(db)
	} else {
		logger.Warn("DB_URL empty, using in-memory repositories")
		a.Repos = NewMemoryRepositories()
	}
	if cfg.CacheEnabled {
		a.Repos = a.Repos.WithReadCache(cfg.CacheTTL)
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:        cfg.APIFootballBaseURL,
		Key:            cfg.APIFootballKey,
		Timeout:        cfg.APIFootballTimeout,
		MaxRetries:     cfg.APIFootballMaxRetries,
		RatePerMinute:  cfg.APIFootballRatePerMinute,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: cfg.APIFootballCircuit,
	})
	standingsProvider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL: cfg.FootballDataBaseURL,
		Token:   cfg.FootballDataToken,
		Timeout: cfg.FootballDataTimeout,
		Logger:  logger,
		Metrics: recorder,
	})
	a.wire(provider, standingsProvider)

	return a, nil
}

func (a *App) wire(provider usecase.FootballProvider, standingsProvider usecase.StandingsProvider) {
	cfg, logger, recorder, repos := a.Config, a.Logger, a.Metrics, a.Repos

	a.Ledger = usecase.NewQuotaLedger(repos.Quota, cfg.QuotaDailyLimit, recorder, logger)
	a.LocalWorkers = usecase.NewLocalWorkerInvoker(
		usecase.NewLiveSyncWorker(provider, repos.Fixtures, a.Ledger, recorder, logger),
		usecase.NewLineupSyncWorker(provider, repos.Lineups, a.Ledger, recorder, logger),
		usecase.NewPostMatchStatsWorker(provider, repos.Fixtures, repos.TeamStats, repos.PlayerStats, a.Ledger, recorder, logger),
	)

	a.Invoker = a.LocalWorkers
	if cfg.WorkerTransport == config.WorkerTransportHTTP {
		a.Invoker = workerclient.NewClient(workerclient.ClientConfig{
			BaseURL:        cfg.WorkerBaseURL,
			Token:          cfg.ServiceToken,
			Timeout:        cfg.WorkerTimeout,
			Logger:         logger,
			CircuitBreaker: cfg.WorkerCircuit,
		})
	}

	a.DetailCache = usecase.NewDetailCacheService(repos.DetailCache, provider, a.Ledger, recorder, logger)
	a.DayMatches = usecase.NewDayMatchesService(repos.DetailCache, provider, a.Ledger, recorder, logger)
	a.PlayerLookup = usecase.NewPlayerLookup(provider, a.Ledger, logger)
	a.LiveManager = usecase.NewLiveManager(repos.Fixtures, repos.Lineups, a.Invoker, repos.Dispatches, usecase.LiveManagerConfig{
		LineupWindowBefore: cfg.LiveLineupWindowBefore,
		LineupWindowAfter:  cfg.LiveLineupWindowAfter,
		StatsBacklogLimit:  cfg.StatsBacklogLimit,
	}, recorder, logger)
	a.LineupManager = usecase.NewLineupManager(repos.Fixtures, repos.Lineups, a.Invoker, repos.Dispatches, usecase.LineupManagerConfig{
		WindowBefore: cfg.LineupManagerWindowBefore,
		WindowAfter:  cfg.LineupManagerWindowAfter,
	}, recorder, logger)
	a.UsagePredictor = usecase.NewUsagePredictionService(repos.Fixtures, repos.Quota, logger)
	a.MasterSync = usecase.NewMasterSync(provider, repos.Fixtures, repos.Teams, a.Ledger, cfg.MasterSyncLeagueIDs, logger)
	a.Catalog = usecase.NewCatalogSync(provider, repos.Teams, repos.Players, repos.Leagues, a.Ledger, cfg.SquadSyncWorkers, logger)
	a.TeamMapping = usecase.NewTeamMappingService(repos.Teams, repos.Mappings, standingsProvider, usecase.NameTeamMatcher{}, logger)
	a.Standings = usecase.NewStandingsSync(repos.Mappings, repos.Standings, standingsProvider, logger)
}

// NewHTTPServer builds the public server. Worker routes always run the
// in-process workers; managers reach them through the configured transport.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(httpapi.Services{
		Workers:        a.LocalWorkers,
		DetailCache:    a.DetailCache,
		DayMatches:     a.DayMatches,
		PlayerLookup:   a.PlayerLookup,
		Ledger:         a.Ledger,
		LiveManager:    a.LiveManager,
		LineupManager:  a.LineupManager,
		UsagePredictor: a.UsagePredictor,
		MasterSync:     a.MasterSync,
		Catalog:        a.Catalog,
		TeamMapping:    a.TeamMapping,
		Standings:      a.Standings,
		Dispatches:     a.Repos.Dispatches,
	}, a.Logger)

	opts := httpapi.RouterOptions{
		ServiceToken:       a.Config.ServiceToken,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
	}
	if a.Metrics != nil {
		opts.MetricsHandler = a.Metrics.Handler()
	}

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, opts, a.Logger),
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
