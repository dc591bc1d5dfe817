package team

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	// UpsertBasic writes id, name and logo only.
	UpsertBasic(ctx context.Context, teams []Team) error
	UpsertFull(ctx context.Context, t Team) error
}
