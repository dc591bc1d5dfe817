package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

type LineupSyncResult struct {
	SyncedIDs []int64 `json:"synced_ids"`
	FailedIDs []int64 `json:"failed_ids"`
}

// LineupSyncWorker stores published pre-match lineups. Fixtures whose
// lineups are not out yet are reported as failed so the next tick retries.
type LineupSyncWorker struct {
	provider   FootballProvider
	lineupRepo lineup.Repository
	ledger     *QuotaLedger
	metrics    *metrics.Recorder
	logger     *logging.Logger
}

func NewLineupSyncWorker(provider FootballProvider, lineupRepo lineup.Repository, ledger *QuotaLedger, recorder *metrics.Recorder, logger *logging.Logger) *LineupSyncWorker {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupSyncWorker{
		provider:   provider,
		lineupRepo: lineupRepo,
		ledger:     ledger,
		metrics:    recorder,
		logger:     logger.With("component", "lineup_worker"),
	}
}

func (w *LineupSyncWorker) Sync(ctx context.Context, fixtureIDs []int64) (LineupSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncWorker.Sync")
	defer span.End()

	ids := uniquePositiveIDs(fixtureIDs)
	result := LineupSyncResult{SyncedIDs: []int64{}, FailedIDs: []int64{}}

	for i, id := range ids {
		err := w.syncOne(ctx, id)
		if err == nil {
			result.SyncedIDs = append(result.SyncedIDs, id)
			continue
		}

		result.FailedIDs = append(result.FailedIDs, id)
		if errors.Is(err, ErrQuotaExhausted) {
			result.FailedIDs = append(result.FailedIDs, ids[i+1:]...)
			w.logger.WarnContext(ctx, "quota exhausted, remaining lineups deferred", "deferred", len(ids)-i)
			break
		}
		w.logger.InfoContext(ctx, "lineup not synced", "fixture_id", id, "reason", err)
	}

	w.metrics.WorkerOutcome("lineups", "synced", len(result.SyncedIDs))
	w.metrics.WorkerOutcome("lineups", "failed", len(result.FailedIDs))
	w.logger.InfoContext(ctx, "lineup sync finished", "synced", len(result.SyncedIDs), "failed", len(result.FailedIDs))
	return result, nil
}

var errLineupNotPublished = errors.New("lineup not published yet")

func (w *LineupSyncWorker) syncOne(ctx context.Context, fixtureID int64) error {
	if err := w.ledger.Ensure(ctx); err != nil {
		return err
	}

	items, err := w.provider.FetchLineups(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("fetch lineups fixture=%d: %w", fixtureID, err)
	}

	snapshot := buildLineupSnapshot(fixtureID, items)
	if snapshot.Empty() {
		return errLineupNotPublished
	}

	if err := w.lineupRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save lineups fixture=%d: %w", fixtureID, err)
	}
	chargeQuota(ctx, w.ledger, w.logger, "lineups")
	return nil
}

func buildLineupSnapshot(fixtureID int64, items []ExternalLineup) lineup.Snapshot {
	snapshot := lineup.Snapshot{FixtureID: fixtureID}
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		snapshot.Teams = append(snapshot.Teams, lineup.TeamLineup{
			FixtureID: fixtureID,
			TeamID:    item.Team.ID,
			Formation: item.Formation,
			Coach:     item.Coach,
		})

		order := 0
		add := func(players []ExternalLineupPlayer, starter bool) {
			for _, p := range players {
				if p.ID <= 0 {
					continue
				}
				snapshot.Players = append(snapshot.Players, lineup.PlayerEntry{
					FixtureID:  fixtureID,
					PlayerID:   p.ID,
					TeamID:     item.Team.ID,
					PlayerName: p.Name,
					Number:     p.Number,
					Pos:        p.Pos,
					Grid:       p.Grid,
					IsStart:    starter,
					SortOrder:  order,
				})
				order++
			}
		}
		add(item.StartXI, true)
		add(item.Substitutes, false)
	}
	return snapshot
}
