package apifootball

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

func (c *Client) FetchTeam(ctx context.Context, teamID int64) (usecase.ExternalTeam, bool, error) {
	res, err := c.get(ctx, "/teams", idQuery(teamID))
	if err != nil {
		return usecase.ExternalTeam{}, false, err
	}
	if len(res.envelope.Response) == 0 {
		return usecase.ExternalTeam{}, false, nil
	}

	raw := res.envelope.Response[0]
	var item teamItemDTO
	if err := sonic.Unmarshal(raw, &item); err != nil {
		return usecase.ExternalTeam{}, false, crerr.Wrapf(err, "decode team=%d", teamID)
	}
	return usecase.ExternalTeam{
		ID:       item.Team.ID,
		Name:     item.Team.Name,
		Code:     item.Team.Code,
		Country:  item.Team.Country,
		Founded:  item.Team.Founded.Ptr(),
		Logo:     item.Team.Logo,
		National: item.Team.National,
		Venue: usecase.ExternalVenue{
			Name:     item.Venue.Name,
			City:     item.Venue.City,
			Capacity: item.Venue.Capacity.Ptr(),
			Surface:  item.Venue.Surface,
			Image:    item.Venue.Image,
		},
		Raw: raw,
	}, true, nil
}

func (c *Client) FetchSquad(ctx context.Context, teamID int64) (usecase.ExternalSquad, bool, error) {
	query := url.Values{}
	query.Set("team", strconv.FormatInt(teamID, 10))
	res, err := c.get(ctx, "/players/squads", query)
	if err != nil {
		return usecase.ExternalSquad{}, false, err
	}
	if len(res.envelope.Response) == 0 {
		return usecase.ExternalSquad{}, false, nil
	}

	var item squadItemDTO
	if err := sonic.Unmarshal(res.envelope.Response[0], &item); err != nil {
		return usecase.ExternalSquad{}, false, crerr.Wrapf(err, "decode squad team=%d", teamID)
	}

	var players []squadPlayerDTO
	rawPlayers := item.Players
	if len(rawPlayers) == 0 || string(rawPlayers) == "null" {
		rawPlayers = json.RawMessage("[]")
	}
	if err := sonic.Unmarshal(rawPlayers, &players); err != nil {
		return usecase.ExternalSquad{}, false, crerr.Wrapf(err, "decode squad players team=%d", teamID)
	}

	squad := usecase.ExternalSquad{
		Team:       mapTeamRef(item.Team),
		Players:    make([]usecase.ExternalSquadPlayer, 0, len(players)),
		RawPlayers: rawPlayers,
	}
	for _, p := range players {
		squad.Players = append(squad.Players, usecase.ExternalSquadPlayer{
			ID:       p.ID,
			Name:     p.Name,
			Age:      p.Age.Ptr(),
			Number:   p.Number.Ptr(),
			Position: p.Position,
			Photo:    p.Photo,
		})
	}
	return squad, true, nil
}

func (c *Client) FetchLeague(ctx context.Context, leagueID int64) (usecase.ExternalLeague, bool, error) {
	res, err := c.get(ctx, "/leagues", idQuery(leagueID))
	if err != nil {
		return usecase.ExternalLeague{}, false, err
	}
	if len(res.envelope.Response) == 0 {
		return usecase.ExternalLeague{}, false, nil
	}

	var item leagueItemDTO
	if err := sonic.Unmarshal(res.envelope.Response[0], &item); err != nil {
		return usecase.ExternalLeague{}, false, crerr.Wrapf(err, "decode league=%d", leagueID)
	}
	return usecase.ExternalLeague{
		ID:          item.League.ID,
		Name:        item.League.Name,
		Type:        item.League.Type,
		Logo:        item.League.Logo,
		CountryName: item.Country.Name,
		CountryCode: item.Country.Code,
		CountryFlag: item.Country.Flag,
	}, true, nil
}

// FetchPlayer loads the season profile. The whole body is kept because the
// player detail cache serves the envelope as-is.
func (c *Client) FetchPlayer(ctx context.Context, playerID int64, season int) (usecase.ExternalPlayerProfile, bool, error) {
	query := idQuery(playerID)
	query.Set("season", strconv.Itoa(season))
	res, err := c.get(ctx, "/players", query)
	if err != nil {
		return usecase.ExternalPlayerProfile{}, false, err
	}
	if len(res.envelope.Response) == 0 {
		return usecase.ExternalPlayerProfile{Envelope: json.RawMessage(res.body)}, false, nil
	}

	var item playerItemDTO
	if err := sonic.Unmarshal(res.envelope.Response[0], &item); err != nil {
		return usecase.ExternalPlayerProfile{}, false, crerr.Wrapf(err, "decode player=%d", playerID)
	}
	return usecase.ExternalPlayerProfile{
		ID:          item.Player.ID,
		Name:        item.Player.Name,
		Age:         item.Player.Age.Ptr(),
		Nationality: item.Player.Nationality,
		Photo:       item.Player.Photo,
		Height:      item.Player.Height,
		Weight:      item.Player.Weight,
		BirthDate:   item.Player.Birth.Date,
		Injured:     item.Player.Injured,
		Statistics:  item.Statistics,
		Envelope:    json.RawMessage(res.body),
	}, true, nil
}

func idQuery(id int64) url.Values {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))
	return query
}
