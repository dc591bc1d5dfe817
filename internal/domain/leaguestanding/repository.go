package leaguestanding

import "context"

type Repository interface {
	UpsertStandings(ctx context.Context, standings []Standing) error
	ListByLeague(ctx context.Context, leagueID int64, season int) ([]Standing, error)
}
