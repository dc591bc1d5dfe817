package playerstats

import "context"

type Repository interface {
	// SaveFixturePlayers upserts player_details (id, name, photo) first and
	// then fixture_players, all in one transaction.
	SaveFixturePlayers(ctx context.Context, rows []FixturePlayer) error
	ListByFixture(ctx context.Context, fixtureID int64) ([]FixturePlayer, error)
}
