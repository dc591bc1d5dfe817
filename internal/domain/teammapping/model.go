package teammapping

// Mapping links an API-Football team to its football-data.org counterpart
// within one league.
type Mapping struct {
	LeagueID int64
	AFTeamID int64
	FDTeamID int64
	TeamName string
}
