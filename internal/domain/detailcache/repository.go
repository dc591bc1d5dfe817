package detailcache

import "context"

type Repository interface {
	Get(ctx context.Context, kind Kind, id int64) (Entry, bool, error)
	Put(ctx context.Context, kind Kind, entry Entry) error
	ListDayMatches(ctx context.Context, date string) ([]DayMatch, error)
	UpsertDayMatches(ctx context.Context, matches []DayMatch) error
}
