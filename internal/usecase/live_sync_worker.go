package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

// MaxLiveBatchSize is the most fixture ids one upstream call accepts.
const MaxLiveBatchSize = 20

type LiveSyncResult struct {
	SyncedIDs   []int64 `json:"synced_ids"`
	EventsCount int     `json:"events_count"`
	NoUpdate    bool    `json:"no_update"`
	Message     string  `json:"message"`
}

type LiveSyncWorker struct {
	provider    FootballProvider
	fixtureRepo fixture.Repository
	ledger      *QuotaLedger
	metrics     *metrics.Recorder
	logger      *logging.Logger
}

func NewLiveSyncWorker(provider FootballProvider, fixtureRepo fixture.Repository, ledger *QuotaLedger, recorder *metrics.Recorder, logger *logging.Logger) *LiveSyncWorker {
	if logger == nil {
		logger = logging.Default()
	}
	return &LiveSyncWorker{
		provider:    provider,
		fixtureRepo: fixtureRepo,
		ledger:      ledger,
		metrics:     recorder,
		logger:      logger.With("component", "live_worker"),
	}
}

// Sync refreshes scores, status and events for up to MaxLiveBatchSize
// fixtures with a single upstream call.
func (w *LiveSyncWorker) Sync(ctx context.Context, fixtureIDs []int64) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveSyncWorker.Sync")
	defer span.End()

	ids := uniquePositiveIDs(fixtureIDs)
	if len(ids) > MaxLiveBatchSize {
		return LiveSyncResult{}, fmt.Errorf("%w: at most %d fixture ids per batch, got %d", ErrInvalidInput, MaxLiveBatchSize, len(ids))
	}
	result := LiveSyncResult{SyncedIDs: []int64{}}
	if len(ids) == 0 {
		result.NoUpdate = true
		result.Message = "no fixture ids"
		return result, nil
	}

	if err := w.ledger.Ensure(ctx); err != nil {
		return LiveSyncResult{}, err
	}

	items, err := w.provider.FetchFixturesByIDs(ctx, ids)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("fetch live fixtures: %w", err)
	}
	if len(items) == 0 {
		result.NoUpdate = true
		result.Message = "no update"
		return result, nil
	}

	var storeErrs int
	for _, item := range items {
		update := liveUpdateFrom(item.Fixture)
		events := make([]fixture.Event, 0, len(item.Events))
		for _, ev := range item.Events {
			ev.FixtureID = update.ID
			events = append(events, ev)
		}

		if err := w.fixtureRepo.ApplyLiveUpdate(ctx, update, events); err != nil {
			storeErrs++
			w.logger.WarnContext(ctx, "apply live update failed", "fixture_id", update.ID, "error", err)
			continue
		}
		result.SyncedIDs = append(result.SyncedIDs, update.ID)
		result.EventsCount += len(events)
	}

	if len(result.SyncedIDs) == 0 {
		w.metrics.WorkerOutcome("live", "failed", storeErrs)
		return LiveSyncResult{}, fmt.Errorf("store live updates: %d of %d fixtures failed", storeErrs, len(items))
	}
	chargeQuota(ctx, w.ledger, w.logger, "live")

	w.metrics.WorkerOutcome("live", "synced", len(result.SyncedIDs))
	w.metrics.WorkerOutcome("live", "failed", storeErrs)
	result.Message = fmt.Sprintf("synced %d fixtures", len(result.SyncedIDs))
	w.logger.InfoContext(ctx, "live sync finished", "requested", len(ids), "synced", len(result.SyncedIDs), "events", result.EventsCount)
	return result, nil
}

func liveUpdateFrom(f fixture.Fixture) fixture.LiveUpdate {
	return fixture.LiveUpdate{
		ID:          f.ID,
		StatusShort: fixture.NormalizeStatus(f.StatusShort),
		StatusLong:  f.StatusLong,
		Elapsed:     f.Elapsed,
		GoalsHome:   f.GoalsHome,
		GoalsAway:   f.GoalsAway,
		Halftime:    f.Halftime,
		Fulltime:    f.Fulltime,
		Extratime:   f.Extratime,
		Penalty:     f.Penalty,
	}
}
