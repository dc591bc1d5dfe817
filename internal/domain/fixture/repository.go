package fixture

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a write against a fixture that is not stored yet.
var ErrNotFound = errors.New("fixture not found")

// Repository describes fixture persistence needed by the sync use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Fixture, bool, error)
	// UpsertFixtures writes full rows keyed by id and leaves sync flags untouched.
	UpsertFixtures(ctx context.Context, fixtures []Fixture) error
	// ApplyLiveUpdate refreshes volatile columns and replaces the events of
	// the fixture in one transaction. Unknown ids fail with ErrNotFound.
	ApplyLiveUpdate(ctx context.Context, update LiveUpdate, events []Event) error
	ListEvents(ctx context.Context, fixtureID int64) ([]Event, error)
	ListActiveIDs(ctx context.Context, statuses []string, kickoffBefore time.Time) ([]int64, error)
	// ListIDsBetween returns fixtures whose kickoff lies in [from, to].
	ListIDsBetween(ctx context.Context, from, to time.Time) ([]int64, error)
	// ListKickoffsBetween returns kickoff times in [from, to).
	ListKickoffsBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
	ListStatsBacklog(ctx context.Context, statuses []string, limit int) ([]StatsCandidate, error)
	// MarkStatsSynced only ever sets flags to true.
	MarkStatsSynced(ctx context.Context, fixtureID int64, team, player bool) error
}
