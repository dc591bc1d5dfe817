package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

func TestLiveSyncWorker_SyncAppliesUpdatesAndEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewFixtureRepository([]fixture.Fixture{
		{ID: 1, StatusShort: fixture.StatusNotStarted, IsTeamStatsSynced: true},
		{ID: 2, StatusShort: fixture.StatusFirstHalf},
	})
	provider := &stubProvider{
		fixturesByIDs: func(ids []int64) ([]ExternalFixture, error) {
			return []ExternalFixture{
				{
					Fixture: fixture.Fixture{ID: 1, StatusShort: "1h", StatusLong: "First Half", Elapsed: intPtr(12), GoalsHome: intPtr(1), GoalsAway: intPtr(0)},
					Events: []fixture.Event{
						{TeamID: 10, Elapsed: 9, Type: "Goal", Detail: "Normal Goal"},
						{TeamID: 20, Elapsed: 11, Type: "Card", Detail: "Yellow Card"},
					},
				},
				{Fixture: fixture.Fixture{ID: 2, StatusShort: "HT", GoalsHome: intPtr(0), GoalsAway: intPtr(0)}},
			}, nil
		},
	}
	ledger, quotaRepo := newTestLedger(95)
	worker := NewLiveSyncWorker(provider, repo, ledger, nil, logging.NewNop())

	result, err := worker.Sync(ctx, []int64{1, 2})
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if len(result.SyncedIDs) != 2 || result.EventsCount != 2 || result.NoUpdate {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Message != "synced 2 fixtures" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if usedToday(quotaRepo) != 1 {
		t.Fatalf("one batch is one quota unit, got=%d", usedToday(quotaRepo))
	}

	got, _, _ := repo.GetByID(ctx, 1)
	if got.StatusShort != fixture.StatusFirstHalf || *got.GoalsHome != 1 {
		t.Fatalf("unexpected fixture after update: %+v", got)
	}
	if !got.IsTeamStatsSynced {
		t.Fatalf("live update must not touch sync flags")
	}
	events, _ := repo.ListEvents(ctx, 1)
	if len(events) != 2 || events[0].FixtureID != 1 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestLiveSyncWorker_EventsAreReplacedNotAppended(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewFixtureRepository([]fixture.Fixture{{ID: 1}})
	provider := &stubProvider{
		fixturesByIDs: func(ids []int64) ([]ExternalFixture, error) {
			return []ExternalFixture{{
				Fixture: fixture.Fixture{ID: 1, StatusShort: "2H"},
				Events:  []fixture.Event{{TeamID: 10, Elapsed: 50, Type: "Goal"}},
			}}, nil
		},
	}
	ledger, _ := newTestLedger(95)
	worker := NewLiveSyncWorker(provider, repo, ledger, nil, logging.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := worker.Sync(ctx, []int64{1}); err != nil {
			t.Fatalf("sync live #%d: %v", i, err)
		}
	}
	events, _ := repo.ListEvents(ctx, 1)
	if len(events) != 1 {
		t.Fatalf("expected events to be replaced, got=%d", len(events))
	}
}

func TestLiveSyncWorker_EmptyUpstreamIsNoUpdate(t *testing.T) {
	t.Parallel()

	ledger, quotaRepo := newTestLedger(95)
	worker := NewLiveSyncWorker(&stubProvider{}, memory.NewFixtureRepository(nil), ledger, nil, logging.NewNop())

	result, err := worker.Sync(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if !result.NoUpdate || result.Message != "no update" {
		t.Fatalf("expected no update, got=%+v", result)
	}
	if usedToday(quotaRepo) != 0 {
		t.Fatalf("empty response must not be charged")
	}
}

func TestLiveSyncWorker_RejectsOversizedBatch(t *testing.T) {
	t.Parallel()

	ids := make([]int64, MaxLiveBatchSize+1)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	provider := &stubProvider{}
	ledger, _ := newTestLedger(95)
	worker := NewLiveSyncWorker(provider, memory.NewFixtureRepository(nil), ledger, nil, logging.NewNop())

	if _, err := worker.Sync(context.Background(), ids); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
	if provider.count("fixtures_by_ids") != 0 {
		t.Fatalf("oversized batch must not reach upstream")
	}
}

func TestLiveSyncWorker_NoIDs(t *testing.T) {
	t.Parallel()

	ledger, _ := newTestLedger(95)
	worker := NewLiveSyncWorker(&stubProvider{}, memory.NewFixtureRepository(nil), ledger, nil, logging.NewNop())

	result, err := worker.Sync(context.Background(), nil)
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if !result.NoUpdate {
		t.Fatalf("expected no update for empty input")
	}
}

func TestLiveSyncWorker_UnknownFixtureIsNotCreated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewFixtureRepository([]fixture.Fixture{{ID: 1}})
	provider := &stubProvider{
		fixturesByIDs: func(ids []int64) ([]ExternalFixture, error) {
			return []ExternalFixture{
				{Fixture: fixture.Fixture{ID: 1, StatusShort: "1H"}},
				{Fixture: fixture.Fixture{ID: 99, StatusShort: "1H"}},
			}, nil
		},
	}
	ledger, _ := newTestLedger(95)
	worker := NewLiveSyncWorker(provider, repo, ledger, nil, logging.NewNop())

	result, err := worker.Sync(ctx, []int64{1, 99})
	if err != nil {
		t.Fatalf("sync live: %v", err)
	}
	if len(result.SyncedIDs) != 1 || result.SyncedIDs[0] != 1 {
		t.Fatalf("only the stored fixture should sync, got=%v", result.SyncedIDs)
	}
	if _, found, _ := repo.GetByID(ctx, 99); found {
		t.Fatalf("live update must not create fixture 99")
	}
}

func TestLiveSyncWorker_AllUnknownFailsWithoutCharge(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		fixturesByIDs: func(ids []int64) ([]ExternalFixture, error) {
			return []ExternalFixture{{Fixture: fixture.Fixture{ID: 99, StatusShort: "FT"}}}, nil
		},
	}
	ledger, quotaRepo := newTestLedger(95)
	worker := NewLiveSyncWorker(provider, memory.NewFixtureRepository(nil), ledger, nil, logging.NewNop())

	if _, err := worker.Sync(context.Background(), []int64{99}); err == nil {
		t.Fatalf("expected store error for unknown fixture")
	}
	if usedToday(quotaRepo) != 0 {
		t.Fatalf("failed batch must not be charged, got=%d", usedToday(quotaRepo))
	}
}
