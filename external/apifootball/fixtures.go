package apifootball

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

// maxIDsPerRequest is the provider cap for the fixtures ids filter.
const maxIDsPerRequest = 20

func (c *Client) FetchFixturesByDate(ctx context.Context, date, timezone string) ([]usecase.ExternalFixture, error) {
	query := url.Values{}
	query.Set("date", date)
	if tz := strings.TrimSpace(timezone); tz != "" {
		query.Set("timezone", tz)
	}
	res, err := c.get(ctx, "/fixtures", query)
	if err != nil {
		return nil, err
	}
	return decodeFixtures(res.envelope.Response)
}

func (c *Client) FetchFixtureByID(ctx context.Context, fixtureID int64) (usecase.ExternalFixture, bool, error) {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(fixtureID, 10))
	res, err := c.get(ctx, "/fixtures", query)
	if err != nil {
		return usecase.ExternalFixture{}, false, err
	}
	items, err := decodeFixtures(res.envelope.Response)
	if err != nil || len(items) == 0 {
		return usecase.ExternalFixture{}, false, err
	}
	return items[0], true, nil
}

func (c *Client) FetchFixturesByIDs(ctx context.Context, fixtureIDs []int64) ([]usecase.ExternalFixture, error) {
	if len(fixtureIDs) == 0 {
		return []usecase.ExternalFixture{}, nil
	}
	if len(fixtureIDs) > maxIDsPerRequest {
		return nil, crerr.Newf("fixtures ids filter accepts at most %d ids, got %d", maxIDsPerRequest, len(fixtureIDs))
	}
	parts := make([]string, 0, len(fixtureIDs))
	for _, id := range fixtureIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	query := url.Values{}
	query.Set("ids", strings.Join(parts, "-"))
	res, err := c.get(ctx, "/fixtures", query)
	if err != nil {
		return nil, err
	}
	return decodeFixtures(res.envelope.Response)
}

func (c *Client) FetchLineups(ctx context.Context, fixtureID int64) ([]usecase.ExternalLineup, error) {
	res, err := c.get(ctx, "/fixtures/lineups", fixtureQuery(fixtureID))
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalLineup, 0, len(res.envelope.Response))
	for _, raw := range res.envelope.Response {
		var item lineupItemDTO
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return nil, crerr.Wrapf(err, "decode lineup fixture=%d", fixtureID)
		}
		lineup := usecase.ExternalLineup{
			Team:      mapTeamRef(item.Team),
			Formation: item.Formation,
			Coach:     item.Coach.Name,
		}
		for _, row := range item.StartXI {
			lineup.StartXI = append(lineup.StartXI, mapLineupPlayer(row.Player))
		}
		for _, row := range item.Substitutes {
			lineup.Substitutes = append(lineup.Substitutes, mapLineupPlayer(row.Player))
		}
		out = append(out, lineup)
	}
	return out, nil
}

func (c *Client) FetchTeamStatistics(ctx context.Context, fixtureID int64) ([]usecase.ExternalTeamStatistics, error) {
	res, err := c.get(ctx, "/fixtures/statistics", fixtureQuery(fixtureID))
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeamStatistics, 0, len(res.envelope.Response))
	for _, raw := range res.envelope.Response {
		var item teamStatisticsDTO
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return nil, crerr.Wrapf(err, "decode team statistics fixture=%d", fixtureID)
		}
		stats := usecase.ExternalTeamStatistics{Team: mapTeamRef(item.Team)}
		for _, s := range item.Statistics {
			stats.Statistics = append(stats.Statistics, usecase.ExternalStatistic{Type: s.Type, Value: string(s.Value)})
		}
		out = append(out, stats)
	}
	return out, nil
}

func (c *Client) FetchPlayerStatistics(ctx context.Context, fixtureID int64) ([]usecase.ExternalTeamPlayers, error) {
	res, err := c.get(ctx, "/fixtures/players", fixtureQuery(fixtureID))
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalTeamPlayers, 0, len(res.envelope.Response))
	for _, raw := range res.envelope.Response {
		var item teamPlayersDTO
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return nil, crerr.Wrapf(err, "decode player statistics fixture=%d", fixtureID)
		}
		group := usecase.ExternalTeamPlayers{Team: mapTeamRef(item.Team)}
		for _, p := range item.Players {
			if len(p.Statistics) == 0 {
				continue
			}
			var line playerStatLineDTO
			if err := sonic.Unmarshal(p.Statistics[0], &line); err != nil {
				return nil, crerr.Wrapf(err, "decode player line player=%d fixture=%d", p.Player.ID, fixtureID)
			}
			group.Players = append(group.Players, usecase.ExternalPlayerLine{
				ID:              p.Player.ID,
				Name:            p.Player.Name,
				Photo:           p.Player.Photo,
				Minutes:         line.Games.Minutes.Ptr(),
				Number:          line.Games.Number.Ptr(),
				Position:        line.Games.Position,
				Rating:          string(line.Games.Rating),
				Captain:         line.Games.Captain,
				Substitute:      line.Games.Substitute,
				Goals:           line.Goals.Total.Ptr(),
				Assists:         line.Goals.Assists.Ptr(),
				ShotsTotal:      line.Shots.Total.Ptr(),
				PassesTotal:     line.Passes.Total.Ptr(),
				PassesAccuracy:  string(line.Passes.Accuracy),
				TacklesTotal:    line.Tackles.Total.Ptr(),
				Interceptions:   line.Tackles.Interceptions.Ptr(),
				DuelsWon:        line.Duels.Won.Ptr(),
				DribblesSuccess: line.Dribbles.Success.Ptr(),
				YellowCards:     line.Cards.Yellow.Ptr(),
				RedCards:        line.Cards.Red.Ptr(),
				RawStatistics:   p.Statistics[0],
			})
		}
		out = append(out, group)
	}
	return out, nil
}

func fixtureQuery(fixtureID int64) url.Values {
	query := url.Values{}
	query.Set("fixture", strconv.FormatInt(fixtureID, 10))
	return query
}

func decodeFixtures(items []json.RawMessage) ([]usecase.ExternalFixture, error) {
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, raw := range items {
		var item fixtureItemDTO
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return nil, crerr.Wrap(err, "decode fixture item")
		}
		mapped, err := mapFixture(item)
		if err != nil {
			return nil, err
		}
		mapped.Raw = raw
		out = append(out, mapped)
	}
	return out, nil
}

func mapFixture(item fixtureItemDTO) (usecase.ExternalFixture, error) {
	kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
	if err != nil {
		return usecase.ExternalFixture{}, crerr.Wrapf(err, "parse kickoff fixture=%d", item.Fixture.ID)
	}

	f := fixture.Fixture{
		ID:          item.Fixture.ID,
		LeagueID:    item.League.ID,
		Season:      item.League.Season.Value,
		EventDate:   kickoff.UTC(),
		Timezone:    item.Fixture.Timezone,
		VenueID:     item.Fixture.Venue.ID,
		VenueName:   item.Fixture.Venue.Name,
		VenueCity:   item.Fixture.Venue.City,
		Referee:     item.Fixture.Referee,
		StatusShort: fixture.NormalizeStatus(item.Fixture.Status.Short),
		StatusLong:  item.Fixture.Status.Long,
		Elapsed:     item.Fixture.Status.Elapsed.Ptr(),
		HomeTeamID:  item.Teams.Home.ID,
		AwayTeamID:  item.Teams.Away.ID,
		GoalsHome:   item.Goals.Home.Ptr(),
		GoalsAway:   item.Goals.Away.Ptr(),
		Halftime:    mapScore(item.Score.Halftime),
		Fulltime:    mapScore(item.Score.Fulltime),
		Extratime:   mapScore(item.Score.Extratime),
		Penalty:     mapScore(item.Score.Penalty),
	}

	events := make([]fixture.Event, 0, len(item.Events))
	for _, e := range item.Events {
		events = append(events, fixture.Event{
			FixtureID:    item.Fixture.ID,
			TeamID:       e.Team.ID,
			PlayerID:     e.Player.ID,
			PlayerName:   e.Player.Name,
			AssistID:     e.Assist.ID,
			AssistName:   e.Assist.Name,
			Elapsed:      e.Time.Elapsed.Value,
			ElapsedExtra: e.Time.Extra.Ptr(),
			Type:         e.Type,
			Detail:       e.Detail,
			Comments:     string(e.Comments),
		})
	}

	return usecase.ExternalFixture{
		Fixture:    f,
		HomeTeam:   mapTeamRef(item.Teams.Home),
		AwayTeam:   mapTeamRef(item.Teams.Away),
		LeagueName: item.League.Name,
		Events:     events,
	}, nil
}

func mapScore(pair scorePairDTO) fixture.Score {
	return fixture.Score{Home: pair.Home.Ptr(), Away: pair.Away.Ptr()}
}

func mapTeamRef(ref teamRefDTO) usecase.ExternalTeamRef {
	return usecase.ExternalTeamRef{ID: ref.ID, Name: ref.Name, Logo: ref.Logo}
}

func mapLineupPlayer(p lineupPlayerDTO) usecase.ExternalLineupPlayer {
	return usecase.ExternalLineupPlayer{
		ID:     p.ID,
		Name:   p.Name,
		Number: p.Number.Ptr(),
		Pos:    p.Pos,
		Grid:   p.Grid,
	}
}
