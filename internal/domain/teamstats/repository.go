package teamstats

import "context"

type Repository interface {
	UpsertTeamStatistics(ctx context.Context, stats []TeamStatistics) error
	ListByFixture(ctx context.Context, fixtureID int64) ([]TeamStatistics, error)
}
