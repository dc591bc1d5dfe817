package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

const MessageNoTasks = "no tasks"

type LiveManagerConfig struct {
	LineupWindowBefore time.Duration
	LineupWindowAfter  time.Duration
	StatsBacklogLimit  int
}

type LineupDispatchReport struct {
	Attempted int     `json:"attempted"`
	Synced    int     `json:"synced"`
	Failed    int     `json:"failed"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

type StatsDispatchReport struct {
	Attempted int `json:"attempted"`
	Completed int `json:"completed"`
}

type LiveManagerReport struct {
	Message           string               `json:"message,omitempty"`
	LiveCount         int                  `json:"live_count"`
	LiveBatches       int                  `json:"live_batches"`
	LiveFailedBatches int                  `json:"live_failed_batches"`
	LineupSync        LineupDispatchReport `json:"lineup_sync"`
	StatsSync         StatsDispatchReport  `json:"stats_sync"`
	Errors            []string             `json:"errors,omitempty"`
}

// LiveManager is the five-minute tick: it polls live fixtures in batches,
// asks for lineups of imminent kickoffs and drains the post-match stats
// backlog. Worker calls run one after another.
type LiveManager struct {
	fixtureRepo fixture.Repository
	lineupRepo  lineup.Repository
	invoker     WorkerInvoker
	audit       dispatchAudit
	cfg         LiveManagerConfig
	metrics     *metrics.Recorder
	logger      *logging.Logger
	now         func() time.Time
}

func NewLiveManager(
	fixtureRepo fixture.Repository,
	lineupRepo lineup.Repository,
	invoker WorkerInvoker,
	dispatchRepo jobscheduler.Repository,
	cfg LiveManagerConfig,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *LiveManager {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LineupWindowBefore <= 0 {
		cfg.LineupWindowBefore = 30 * time.Minute
	}
	if cfg.LineupWindowAfter <= 0 {
		cfg.LineupWindowAfter = 50 * time.Minute
	}
	if cfg.StatsBacklogLimit <= 0 {
		cfg.StatsBacklogLimit = 5
	}
	logger = logger.With("component", "live_manager")

	m := &LiveManager{
		fixtureRepo: fixtureRepo,
		lineupRepo:  lineupRepo,
		invoker:     invoker,
		cfg:         cfg,
		metrics:     recorder,
		logger:      logger,
		now:         time.Now,
	}
	m.audit = dispatchAudit{repo: dispatchRepo, manager: "live_manager", logger: logger, now: func() time.Time { return m.now() }}
	return m
}

func (m *LiveManager) Run(ctx context.Context) (LiveManagerReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveManager.Run")
	defer span.End()

	now := m.now().UTC()

	liveIDs, err := m.fixtureRepo.ListActiveIDs(ctx, fixture.ActiveStatuses(), now)
	if err != nil {
		m.metrics.ManagerRun("live", "error")
		return LiveManagerReport{}, fmt.Errorf("list live fixtures: %w", err)
	}

	lineupIDs, err := pendingLineupIDs(ctx, m.fixtureRepo, m.lineupRepo, now.Add(-m.cfg.LineupWindowBefore), now.Add(m.cfg.LineupWindowAfter))
	if err != nil {
		m.metrics.ManagerRun("live", "error")
		return LiveManagerReport{}, err
	}

	backlog, err := m.fixtureRepo.ListStatsBacklog(ctx, fixture.FinishedStatuses(), m.cfg.StatsBacklogLimit)
	if err != nil {
		m.metrics.ManagerRun("live", "error")
		return LiveManagerReport{}, fmt.Errorf("list stats backlog: %w", err)
	}

	if len(liveIDs) == 0 && len(lineupIDs.pending) == 0 && len(backlog) == 0 {
		m.metrics.ManagerRun("live", "idle")
		m.logger.InfoContext(ctx, "no live, lineup or stats tasks")
		return LiveManagerReport{Message: MessageNoTasks}, nil
	}

	report := LiveManagerReport{LiveCount: len(liveIDs)}
	m.runLiveBatches(ctx, liveIDs, &report)
	m.runLineups(ctx, lineupIDs.pending, &report)
	m.runStats(ctx, backlog, &report)

	m.metrics.ManagerRun("live", "ok")
	m.logger.InfoContext(ctx, "live manager tick finished",
		"live_count", report.LiveCount,
		"live_batches", report.LiveBatches,
		"live_failed_batches", report.LiveFailedBatches,
		"lineups_attempted", report.LineupSync.Attempted,
		"lineups_synced", report.LineupSync.Synced,
		"stats_attempted", report.StatsSync.Attempted,
		"stats_completed", report.StatsSync.Completed,
	)
	return report, nil
}

func (m *LiveManager) runLiveBatches(ctx context.Context, liveIDs []int64, report *LiveManagerReport) {
	for _, batch := range chunkIDs(liveIDs, MaxLiveBatchSize) {
		report.LiveBatches++
		err := m.audit.track(ctx, WorkerLive, batch, func(ctx context.Context) (map[string]any, error) {
			res, err := m.invoker.SyncLive(ctx, batch)
			if err != nil {
				return nil, err
			}
			return map[string]any{"synced_ids": res.SyncedIDs, "events_count": res.EventsCount, "no_update": res.NoUpdate}, nil
		})
		if err != nil {
			report.LiveFailedBatches++
			report.Errors = append(report.Errors, dispatchError(WorkerLive, err))
			m.logger.WarnContext(ctx, "live batch failed", "batch", report.LiveBatches, "size", len(batch), "error", err)
		}
	}
}

func (m *LiveManager) runLineups(ctx context.Context, ids []int64, report *LiveManagerReport) {
	if len(ids) == 0 {
		return
	}
	report.LineupSync = dispatchLineups(ctx, m.audit, m.invoker, ids)
	if report.LineupSync.Synced == 0 && report.LineupSync.Failed == len(ids) {
		m.logger.InfoContext(ctx, "no lineups synced this tick", "attempted", len(ids))
	}
}

func (m *LiveManager) runStats(ctx context.Context, backlog []fixture.StatsCandidate, report *LiveManagerReport) {
	report.StatsSync.Attempted = len(backlog)
	for _, candidate := range backlog {
		input := StatsSyncInput{
			FixtureID:           candidate.ID,
			IsTeamStatsSynced:   candidate.IsTeamStatsSynced,
			IsPlayerStatsSynced: candidate.IsPlayerStatsSynced,
		}
		err := m.audit.track(ctx, WorkerStats, []int64{candidate.ID}, func(ctx context.Context) (map[string]any, error) {
			res, err := m.invoker.SyncStats(ctx, input)
			if err != nil {
				return nil, err
			}
			return map[string]any{"updated_fields": res.UpdatedFields}, nil
		})
		if err != nil {
			report.Errors = append(report.Errors, dispatchError(WorkerStats, err))
			m.logger.WarnContext(ctx, "stats worker failed", "fixture_id", candidate.ID, "error", err)
			continue
		}
		report.StatsSync.Completed++
	}
}

type lineupCandidates struct {
	inWindow []int64
	pending  []int64
}

// pendingLineupIDs returns fixtures kicking off inside [from, to] that have
// no stored team lineup yet.
func pendingLineupIDs(ctx context.Context, fixtureRepo fixture.Repository, lineupRepo lineup.Repository, from, to time.Time) (lineupCandidates, error) {
	inWindow, err := fixtureRepo.ListIDsBetween(ctx, from, to)
	if err != nil {
		return lineupCandidates{}, fmt.Errorf("list lineup window fixtures: %w", err)
	}
	if len(inWindow) == 0 {
		return lineupCandidates{}, nil
	}

	synced, err := lineupRepo.ListSyncedFixtureIDs(ctx, inWindow)
	if err != nil {
		return lineupCandidates{}, fmt.Errorf("list synced lineups: %w", err)
	}

	pending := make([]int64, 0, len(inWindow))
	for _, id := range inWindow {
		if !slices.Contains(synced, id) {
			pending = append(pending, id)
		}
	}
	return lineupCandidates{inWindow: inWindow, pending: pending}, nil
}

func dispatchLineups(ctx context.Context, audit dispatchAudit, invoker WorkerInvoker, ids []int64) LineupDispatchReport {
	report := LineupDispatchReport{Attempted: len(ids)}

	var synced []int64
	err := audit.track(ctx, WorkerLineups, ids, func(ctx context.Context) (map[string]any, error) {
		res, err := invoker.SyncLineups(ctx, ids)
		if err != nil {
			return nil, err
		}
		synced = res.SyncedIDs
		return map[string]any{"synced_ids": res.SyncedIDs, "failed_ids": res.FailedIDs}, nil
	})
	if err != nil {
		synced = nil
	}

	for _, id := range ids {
		if slices.Contains(synced, id) {
			report.Synced++
			continue
		}
		report.FailedIDs = append(report.FailedIDs, id)
	}
	report.Failed = len(report.FailedIDs)
	return report
}
