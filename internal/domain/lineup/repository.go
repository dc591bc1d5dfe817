package lineup

import "context"

type Repository interface {
	// SaveSnapshot upserts team rows, stub-inserts unseen players and upserts
	// player rows inside one transaction.
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	GetSnapshot(ctx context.Context, fixtureID int64) (Snapshot, error)
	// ListSyncedFixtureIDs returns the subset of ids that already have team lineups.
	ListSyncedFixtureIDs(ctx context.Context, fixtureIDs []int64) ([]int64, error)
}
