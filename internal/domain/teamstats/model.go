package teamstats

// TeamStatistics is the per-side box score stored after full time.
type TeamStatistics struct {
	FixtureID         int64
	TeamID            int64
	PossessionPct     int
	ShotsTotal        int
	ShotsOnGoal       int
	ExpectedGoals     float64
	PassesTotal       int
	PassesAccuracyPct int
	Fouls             int
	Corners           int
	Offsides          int
}
