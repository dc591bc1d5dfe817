package league

import "context"

type Repository interface {
	Upsert(ctx context.Context, l League) error
	GetByID(ctx context.Context, id int64) (League, bool, error)
}
