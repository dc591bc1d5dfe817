package playerstats

import "encoding/json"

// FixturePlayer is one player's line in a finished fixture.
type FixturePlayer struct {
	FixtureID         int64
	PlayerID          int64
	TeamID            int64
	PlayerName        string
	Photo             string
	Minutes           int
	Number            *int
	Position          string
	Rating            *float64
	Captain           bool
	Substitute        bool
	Goals             int
	Assists           int
	ShotsTotal        int
	PassesTotal       int
	PassesAccuracyPct int
	TacklesTotal      int
	Interceptions     int
	DuelsWon          int
	DribblesSuccess   int
	YellowCards       int
	RedCards          int
	RawStats          json.RawMessage
}
