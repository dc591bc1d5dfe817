package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

const (
	MessageNoMatches         = "no matches"
	MessageAllLineupsSynced  = "all lineups already synced"
	MessageLineupsDispatched = "lineups dispatched"
	defaultLineupScanBefore  = 10 * time.Minute
	defaultLineupScanAfter   = 60 * time.Minute
)

type LineupManagerConfig struct {
	WindowBefore time.Duration
	WindowAfter  time.Duration
}

type LineupManagerReport struct {
	Message string `json:"message"`
	LineupDispatchReport
}

// LineupManager is a standalone lineup scan with a wider look-ahead than
// the live tick.
type LineupManager struct {
	fixtureRepo fixture.Repository
	lineupRepo  lineup.Repository
	invoker     WorkerInvoker
	audit       dispatchAudit
	cfg         LineupManagerConfig
	metrics     *metrics.Recorder
	logger      *logging.Logger
	now         func() time.Time
}

func NewLineupManager(
	fixtureRepo fixture.Repository,
	lineupRepo lineup.Repository,
	invoker WorkerInvoker,
	dispatchRepo jobscheduler.Repository,
	cfg LineupManagerConfig,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *LineupManager {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.WindowBefore <= 0 {
		cfg.WindowBefore = defaultLineupScanBefore
	}
	if cfg.WindowAfter <= 0 {
		cfg.WindowAfter = defaultLineupScanAfter
	}
	logger = logger.With("component", "lineup_manager")

	m := &LineupManager{
		fixtureRepo: fixtureRepo,
		lineupRepo:  lineupRepo,
		invoker:     invoker,
		cfg:         cfg,
		metrics:     recorder,
		logger:      logger,
		now:         time.Now,
	}
	m.audit = dispatchAudit{repo: dispatchRepo, manager: "lineup_manager", logger: logger, now: func() time.Time { return m.now() }}
	return m
}

func (m *LineupManager) Run(ctx context.Context) (LineupManagerReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupManager.Run")
	defer span.End()

	now := m.now().UTC()
	candidates, err := pendingLineupIDs(ctx, m.fixtureRepo, m.lineupRepo, now.Add(-m.cfg.WindowBefore), now.Add(m.cfg.WindowAfter))
	if err != nil {
		m.metrics.ManagerRun("lineup", "error")
		return LineupManagerReport{}, err
	}

	if len(candidates.inWindow) == 0 {
		m.metrics.ManagerRun("lineup", "idle")
		return LineupManagerReport{Message: MessageNoMatches}, nil
	}
	if len(candidates.pending) == 0 {
		m.metrics.ManagerRun("lineup", "idle")
		m.logger.InfoContext(ctx, "every fixture in window already has lineups", "in_window", len(candidates.inWindow))
		return LineupManagerReport{Message: MessageAllLineupsSynced}, nil
	}

	m.logger.InfoContext(ctx, "dispatching lineup worker", "fixture_ids", candidates.pending)
	report := LineupManagerReport{
		Message:              MessageLineupsDispatched,
		LineupDispatchReport: dispatchLineups(ctx, m.audit, m.invoker, candidates.pending),
	}

	m.metrics.ManagerRun("lineup", "ok")
	m.logger.InfoContext(ctx, "lineup manager finished", "attempted", report.Attempted, "synced", report.Synced, "failed", report.Failed)
	return report, nil
}
