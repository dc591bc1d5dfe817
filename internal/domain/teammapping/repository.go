package teammapping

import "context"

type Repository interface {
	UpsertMappings(ctx context.Context, mappings []Mapping) error
	ListByLeague(ctx context.Context, leagueID int64) ([]Mapping, error)
}
