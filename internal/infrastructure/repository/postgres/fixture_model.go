package postgres

import (
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
)

// fixtureInsertModel leaves the stats flags out so re-importing a fixture
// never resets them.
type fixtureInsertModel struct {
	ID            int64     `db:"id"`
	LeagueID      int64     `db:"league_id"`
	Season        int       `db:"season"`
	EventDate     time.Time `db:"event_date"`
	Timezone      string    `db:"timezone"`
	VenueID       *int64    `db:"venue_id"`
	VenueName     string    `db:"venue_name"`
	VenueCity     string    `db:"venue_city"`
	Referee       string    `db:"referee"`
	StatusShort   string    `db:"status_short"`
	StatusLong    string    `db:"status_long"`
	Elapsed       *int      `db:"elapsed"`
	HomeTeamID    int64     `db:"home_team_id"`
	AwayTeamID    int64     `db:"away_team_id"`
	GoalsHome     *int      `db:"goals_home"`
	GoalsAway     *int      `db:"goals_away"`
	HalftimeHome  *int      `db:"score_halftime_home"`
	HalftimeAway  *int      `db:"score_halftime_away"`
	FulltimeHome  *int      `db:"score_fulltime_home"`
	FulltimeAway  *int      `db:"score_fulltime_away"`
	ExtratimeHome *int      `db:"score_extratime_home"`
	ExtratimeAway *int      `db:"score_extratime_away"`
	PenaltyHome   *int      `db:"score_penalty_home"`
	PenaltyAway   *int      `db:"score_penalty_away"`
}

type fixtureTableModel struct {
	fixtureInsertModel
	IsTeamStatsSynced   bool      `db:"is_team_stats_synced"`
	IsPlayerStatsSynced bool      `db:"is_player_stats_synced"`
	UpdatedAt           time.Time `db:"updated_at"`
}

var fixtureColumns = []string{
	"id", "league_id", "season", "event_date", "timezone", "venue_id", "venue_name", "venue_city",
	"referee", "status_short", "status_long", "elapsed", "home_team_id", "away_team_id",
	"goals_home", "goals_away", "score_halftime_home", "score_halftime_away",
	"score_fulltime_home", "score_fulltime_away", "score_extratime_home", "score_extratime_away",
	"score_penalty_home", "score_penalty_away", "is_team_stats_synced", "is_player_stats_synced", "updated_at",
}

func fixtureInsertFromDomain(f fixture.Fixture) fixtureInsertModel {
	timezone := f.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return fixtureInsertModel{
		ID:            f.ID,
		LeagueID:      f.LeagueID,
		Season:        f.Season,
		EventDate:     f.EventDate.UTC(),
		Timezone:      timezone,
		VenueID:       f.VenueID,
		VenueName:     f.VenueName,
		VenueCity:     f.VenueCity,
		Referee:       f.Referee,
		StatusShort:   fixture.NormalizeStatus(f.StatusShort),
		StatusLong:    f.StatusLong,
		Elapsed:       f.Elapsed,
		HomeTeamID:    f.HomeTeamID,
		AwayTeamID:    f.AwayTeamID,
		GoalsHome:     f.GoalsHome,
		GoalsAway:     f.GoalsAway,
		HalftimeHome:  f.Halftime.Home,
		HalftimeAway:  f.Halftime.Away,
		FulltimeHome:  f.Fulltime.Home,
		FulltimeAway:  f.Fulltime.Away,
		ExtratimeHome: f.Extratime.Home,
		ExtratimeAway: f.Extratime.Away,
		PenaltyHome:   f.Penalty.Home,
		PenaltyAway:   f.Penalty.Away,
	}
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:                  row.ID,
		LeagueID:            row.LeagueID,
		Season:              row.Season,
		EventDate:           row.EventDate.UTC(),
		Timezone:            row.Timezone,
		VenueID:             row.VenueID,
		VenueName:           row.VenueName,
		VenueCity:           row.VenueCity,
		Referee:             row.Referee,
		StatusShort:         row.StatusShort,
		StatusLong:          row.StatusLong,
		Elapsed:             row.Elapsed,
		HomeTeamID:          row.HomeTeamID,
		AwayTeamID:          row.AwayTeamID,
		GoalsHome:           row.GoalsHome,
		GoalsAway:           row.GoalsAway,
		Halftime:            fixture.Score{Home: row.HalftimeHome, Away: row.HalftimeAway},
		Fulltime:            fixture.Score{Home: row.FulltimeHome, Away: row.FulltimeAway},
		Extratime:           fixture.Score{Home: row.ExtratimeHome, Away: row.ExtratimeAway},
		Penalty:             fixture.Score{Home: row.PenaltyHome, Away: row.PenaltyAway},
		IsTeamStatsSynced:   row.IsTeamStatsSynced,
		IsPlayerStatsSynced: row.IsPlayerStatsSynced,
	}
}

// noElapsedExtra stands in for a missing stoppage-time value because
// elapsed_extra is part of the event key and cannot be NULL.
const noElapsedExtra = -1

type fixtureEventModel struct {
	FixtureID    int64  `db:"fixture_id"`
	TeamID       int64  `db:"team_id"`
	PlayerKey    int64  `db:"player_key"`
	PlayerID     *int64 `db:"player_id"`
	PlayerName   string `db:"player_name"`
	AssistID     *int64 `db:"assist_id"`
	AssistName   string `db:"assist_name"`
	Elapsed      int    `db:"elapsed"`
	ElapsedExtra int    `db:"elapsed_extra"`
	Type         string `db:"type"`
	Detail       string `db:"detail"`
	Comments     string `db:"comments"`
}

type eventKey struct {
	teamID, playerKey     int64
	elapsed, elapsedExtra int
	eventType, detail     string
}

func (m fixtureEventModel) key() eventKey {
	return eventKey{
		teamID:       m.TeamID,
		playerKey:    m.PlayerKey,
		elapsed:      m.Elapsed,
		elapsedExtra: m.ElapsedExtra,
		eventType:    m.Type,
		detail:       m.Detail,
	}
}

func eventModelFromDomain(fixtureID int64, e fixture.Event) fixtureEventModel {
	model := fixtureEventModel{
		FixtureID:    fixtureID,
		TeamID:       e.TeamID,
		PlayerID:     e.PlayerID,
		PlayerName:   e.PlayerName,
		AssistID:     e.AssistID,
		AssistName:   e.AssistName,
		Elapsed:      e.Elapsed,
		ElapsedExtra: noElapsedExtra,
		Type:         e.Type,
		Detail:       e.Detail,
		Comments:     e.Comments,
	}
	if e.PlayerID != nil {
		model.PlayerKey = *e.PlayerID
	}
	if e.ElapsedExtra != nil {
		model.ElapsedExtra = *e.ElapsedExtra
	}
	return model
}

func eventFromRow(row fixtureEventModel) fixture.Event {
	event := fixture.Event{
		FixtureID:  row.FixtureID,
		TeamID:     row.TeamID,
		PlayerID:   row.PlayerID,
		PlayerName: row.PlayerName,
		AssistID:   row.AssistID,
		AssistName: row.AssistName,
		Elapsed:    row.Elapsed,
		Type:       row.Type,
		Detail:     row.Detail,
		Comments:   row.Comments,
	}
	if row.ElapsedExtra != noElapsedExtra {
		extra := row.ElapsedExtra
		event.ElapsedExtra = &extra
	}
	return event
}

// dedupeEvents keeps the last event per key; one INSERT ... ON CONFLICT
// cannot touch the same row twice.
func dedupeEvents(fixtureID int64, events []fixture.Event) []fixtureEventModel {
	out := make([]fixtureEventModel, 0, len(events))
	index := make(map[eventKey]int, len(events))
	for _, e := range events {
		model := eventModelFromDomain(fixtureID, e)
		if i, ok := index[model.key()]; ok {
			out[i] = model
			continue
		}
		index[model.key()] = len(out)
		out = append(out, model)
	}
	return out
}
