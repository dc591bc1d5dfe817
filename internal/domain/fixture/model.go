package fixture

import (
	"slices"
	"strings"
	"time"
)

const (
	StatusNotStarted    = "NS"
	StatusFirstHalf     = "1H"
	StatusHalfTime      = "HT"
	StatusSecondHalf    = "2H"
	StatusExtraTime     = "ET"
	StatusBreakTime     = "BT"
	StatusPenalties     = "P"
	StatusSuspended     = "SUSP"
	StatusInterrupted   = "INT"
	StatusFullTime      = "FT"
	StatusAfterExtra    = "AET"
	StatusPenaltyResult = "PEN"
	StatusPostponed     = "PST"
	StatusCancelled     = "CANC"
	StatusAbandoned     = "ABD"
)

var (
	activeStatuses   = []string{StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusBreakTime, StatusPenalties, StatusSuspended, StatusInterrupted}
	finishedStatuses = []string{StatusFullTime, StatusAfterExtra, StatusPenaltyResult}
)

// ActiveStatuses lists the in-play statuses polled by the live manager.
func ActiveStatuses() []string {
	return slices.Clone(activeStatuses)
}

// FinishedStatuses lists terminal statuses that unlock post-match stats.
func FinishedStatuses() []string {
	return slices.Clone(finishedStatuses)
}

func NormalizeStatus(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func IsActiveStatus(status string) bool {
	return slices.Contains(activeStatuses, NormalizeStatus(status))
}

func IsFinishedStatus(status string) bool {
	return slices.Contains(finishedStatuses, NormalizeStatus(status))
}

// Score is a home/away pair; nil means the provider has not reported it yet.
type Score struct {
	Home *int
	Away *int
}

// Fixture is one scheduled match as mirrored from API-Football.
type Fixture struct {
	ID          int64
	LeagueID    int64
	Season      int
	EventDate   time.Time
	Timezone    string
	VenueID     *int64
	VenueName   string
	VenueCity   string
	Referee     string
	StatusShort string
	StatusLong  string
	Elapsed     *int
	HomeTeamID  int64
	AwayTeamID  int64
	GoalsHome   *int
	GoalsAway   *int
	Halftime    Score
	Fulltime    Score
	Extratime   Score
	Penalty     Score

	IsTeamStatsSynced   bool
	IsPlayerStatsSynced bool
}

// NeedsStats reports whether a finished fixture still lacks either stats branch.
func (f Fixture) NeedsStats() bool {
	return IsFinishedStatus(f.StatusShort) && (!f.IsTeamStatsSynced || !f.IsPlayerStatsSynced)
}

// LiveUpdate carries the volatile columns refreshed by the live worker.
type LiveUpdate struct {
	ID          int64
	StatusShort string
	StatusLong  string
	Elapsed     *int
	GoalsHome   *int
	GoalsAway   *int
	Halftime    Score
	Fulltime    Score
	Extratime   Score
	Penalty     Score
}

type Event struct {
	FixtureID    int64
	TeamID       int64
	PlayerID     *int64
	PlayerName   string
	AssistID     *int64
	AssistName   string
	Elapsed      int
	ElapsedExtra *int
	Type         string
	Detail       string
	Comments     string
}

// StatsCandidate is a finished fixture with at least one stats flag unset.
type StatsCandidate struct {
	ID                  int64
	IsTeamStatsSynced   bool
	IsPlayerStatsSynced bool
}
