package detailcache

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindMatch Kind = "match"
	KindTeam  Kind = "team"
)

func (k Kind) Valid() bool {
	return k == KindMatch || k == KindTeam
}

// Entry is a cached upstream payload. Entries never expire.
type Entry struct {
	ID        int64
	Data      json.RawMessage
	UpdatedAt time.Time
}

// DayMatch is one row of the per-date match listing cache.
type DayMatch struct {
	ID         int64
	Date       string
	KickoffAt  time.Time
	LeagueID   int64
	Season     int
	HomeTeamID int64
	AwayTeamID int64
	Status     string
	Data       json.RawMessage
}
