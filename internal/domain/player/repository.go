package player

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	// UpsertProfile writes every player_details column.
	UpsertProfile(ctx context.Context, p Player) error
	// SaveSquad writes id/name/age/photo then the team_squads rows in one transaction.
	SaveSquad(ctx context.Context, teamID int64, players []Player, members []SquadMember) error
	ListSquad(ctx context.Context, teamID int64) ([]SquadMember, error)
}
