package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

const (
	WorkerLive    = "live"
	WorkerLineups = "lineups"
	WorkerStats   = "stats"
)

// WorkerInvoker is how managers reach the sync workers: over HTTP when the
// workers run as a separate service, in-process otherwise.
type WorkerInvoker interface {
	SyncLive(ctx context.Context, fixtureIDs []int64) (LiveSyncResult, error)
	SyncLineups(ctx context.Context, fixtureIDs []int64) (LineupSyncResult, error)
	SyncStats(ctx context.Context, input StatsSyncInput) (StatsSyncResult, error)
}

type LocalWorkerInvoker struct {
	live    *LiveSyncWorker
	lineups *LineupSyncWorker
	stats   *PostMatchStatsWorker
}

func NewLocalWorkerInvoker(live *LiveSyncWorker, lineups *LineupSyncWorker, stats *PostMatchStatsWorker) *LocalWorkerInvoker {
	return &LocalWorkerInvoker{live: live, lineups: lineups, stats: stats}
}

func (l *LocalWorkerInvoker) SyncLive(ctx context.Context, fixtureIDs []int64) (LiveSyncResult, error) {
	return l.live.Sync(ctx, fixtureIDs)
}

func (l *LocalWorkerInvoker) SyncLineups(ctx context.Context, fixtureIDs []int64) (LineupSyncResult, error) {
	return l.lineups.Sync(ctx, fixtureIDs)
}

func (l *LocalWorkerInvoker) SyncStats(ctx context.Context, input StatsSyncInput) (StatsSyncResult, error) {
	return l.stats.Sync(ctx, input)
}

// dispatchAudit writes sent/completed/failed rows for each worker call. A
// failing audit write never fails the dispatch itself.
type dispatchAudit struct {
	repo    jobscheduler.Repository
	manager string
	logger  *logging.Logger
	now     func() time.Time
}

func (a dispatchAudit) track(ctx context.Context, worker string, fixtureIDs []int64, call func(ctx context.Context) (map[string]any, error)) error {
	dispatchID := uuid.NewString()
	a.record(ctx, jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		Worker:     worker,
		Status:     jobscheduler.StatusSent,
		FixtureIDs: fixtureIDs,
	})

	payload, err := call(ctx)

	event := jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		Worker:     worker,
		Status:     jobscheduler.StatusCompleted,
		FixtureIDs: fixtureIDs,
		Payload:    payload,
	}
	if err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
	}
	a.record(ctx, event)
	return err
}

func (a dispatchAudit) record(ctx context.Context, event jobscheduler.DispatchEvent) {
	if a.repo == nil {
		return
	}
	event.Manager = a.manager
	event.OccurredAt = a.now().UTC()
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		event.TraceID = spanCtx.TraceID().String()
		event.SpanID = spanCtx.SpanID().String()
	}
	if err := a.repo.UpsertEvent(ctx, event); err != nil {
		a.logger.WarnContext(ctx, "record job dispatch failed",
			"dispatch_id", event.DispatchID,
			"worker", event.Worker,
			"status", event.Status,
			"error", err,
		)
	}
}

func dispatchError(worker string, err error) string {
	return fmt.Sprintf("%s worker: %v", worker, err)
}
