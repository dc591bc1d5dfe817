package usecase

import (
	"context"
	"encoding/json"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
)

// FootballProvider is the quota-metered upstream (API-Football). Every
// method is one upstream call; an empty slice or ok=false means the provider
// has nothing yet and is never an error.
type FootballProvider interface {
	FetchFixturesByDate(ctx context.Context, date, timezone string) ([]ExternalFixture, error)
	FetchFixtureByID(ctx context.Context, fixtureID int64) (ExternalFixture, bool, error)
	FetchFixturesByIDs(ctx context.Context, fixtureIDs []int64) ([]ExternalFixture, error)
	FetchLineups(ctx context.Context, fixtureID int64) ([]ExternalLineup, error)
	FetchTeamStatistics(ctx context.Context, fixtureID int64) ([]ExternalTeamStatistics, error)
	FetchPlayerStatistics(ctx context.Context, fixtureID int64) ([]ExternalTeamPlayers, error)
	FetchTeam(ctx context.Context, teamID int64) (ExternalTeam, bool, error)
	FetchSquad(ctx context.Context, teamID int64) (ExternalSquad, bool, error)
	FetchLeague(ctx context.Context, leagueID int64) (ExternalLeague, bool, error)
	FetchPlayer(ctx context.Context, playerID int64, season int) (ExternalPlayerProfile, bool, error)
}

// StandingsProvider is the secondary provider (football-data.org). It has its
// own quota and is not metered by the ledger.
type StandingsProvider interface {
	FetchStandings(ctx context.Context, competitionCode string, season int) ([]ExternalStandingRow, error)
}

type ExternalTeamRef struct {
	ID   int64
	Name string
	Logo string
}

// ExternalFixture is one fixtures envelope item. Raw keeps the untouched
// item for the read-through caches.
type ExternalFixture struct {
	Fixture    fixture.Fixture
	HomeTeam   ExternalTeamRef
	AwayTeam   ExternalTeamRef
	LeagueName string
	Events     []fixture.Event
	Raw        json.RawMessage
}

type ExternalLineupPlayer struct {
	ID     int64
	Name   string
	Number *int
	Pos    string
	Grid   string
}

type ExternalLineup struct {
	Team        ExternalTeamRef
	Formation   string
	Coach       string
	StartXI     []ExternalLineupPlayer
	Substitutes []ExternalLineupPlayer
}

// ExternalStatistic keeps the provider value as text ("54%", "1.23", "")
// so normalization rules live in one place.
type ExternalStatistic struct {
	Type  string
	Value string
}

type ExternalTeamStatistics struct {
	Team       ExternalTeamRef
	Statistics []ExternalStatistic
}

type ExternalPlayerLine struct {
	ID              int64
	Name            string
	Photo           string
	Minutes         *int
	Number          *int
	Position        string
	Rating          string
	Captain         bool
	Substitute      bool
	Goals           *int
	Assists         *int
	ShotsTotal      *int
	PassesTotal     *int
	PassesAccuracy  string
	TacklesTotal    *int
	Interceptions   *int
	DuelsWon        *int
	DribblesSuccess *int
	YellowCards     *int
	RedCards        *int
	RawStatistics   json.RawMessage
}

type ExternalTeamPlayers struct {
	Team    ExternalTeamRef
	Players []ExternalPlayerLine
}

type ExternalVenue struct {
	Name     string
	City     string
	Capacity *int
	Surface  string
	Image    string
}

type ExternalTeam struct {
	ID       int64
	Name     string
	Code     string
	Country  string
	Founded  *int
	Logo     string
	National bool
	Venue    ExternalVenue
	Raw      json.RawMessage
}

type ExternalSquadPlayer struct {
	ID       int64
	Name     string
	Age      *int
	Number   *int
	Position string
	Photo    string
}

type ExternalSquad struct {
	Team       ExternalTeamRef
	Players    []ExternalSquadPlayer
	RawPlayers json.RawMessage
}

type ExternalLeague struct {
	ID          int64
	Name        string
	Type        string
	Logo        string
	CountryName string
	CountryCode string
	CountryFlag string
}

type ExternalPlayerProfile struct {
	ID          int64
	Name        string
	Age         *int
	Nationality string
	Photo       string
	Height      string
	Weight      string
	BirthDate   string
	Injured     *bool
	Statistics  json.RawMessage
	// Envelope is the whole upstream response body.
	Envelope json.RawMessage
}

type ExternalStandingRow struct {
	TeamID         int64
	TeamName       string
	ShortName      string
	Position       int
	PlayedGames    int
	Won            int
	Draw           int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
}
