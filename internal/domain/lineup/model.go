package lineup

// TeamLineup is the formation and coach one side published for a fixture.
type TeamLineup struct {
	FixtureID int64
	TeamID    int64
	Formation string
	Coach     string
}

type PlayerEntry struct {
	FixtureID  int64
	PlayerID   int64
	TeamID     int64
	PlayerName string
	Number     *int
	Pos        string
	Grid       string
	IsStart    bool
	SortOrder  int
}

// Snapshot is everything stored for one fixture's pre-match lineups.
type Snapshot struct {
	FixtureID int64
	Teams     []TeamLineup
	Players   []PlayerEntry
}

func (s Snapshot) Empty() bool {
	return len(s.Teams) == 0
}
