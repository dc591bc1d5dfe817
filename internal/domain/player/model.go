package player

import "encoding/json"

// Player is a row of player_details. Several writers touch it and each
// updates only the columns it owns.
type Player struct {
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
}

type SquadMember struct {
	TeamID   int64
	PlayerID int64
	Number   *int
	Position string
}
