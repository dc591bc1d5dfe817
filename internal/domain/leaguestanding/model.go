package leaguestanding

// Standing is one table row keyed by (league, team, season) using
// API-Football ids.
type Standing struct {
	LeagueID     int64
	TeamID       int64
	Season       int
	Rank         int
	Played       int
	Win          int
	Draw         int
	Lose         int
	Points       int
	GoalsFor     int
	GoalsAgainst int
	GoalsDiff    int
	Form         string
}
