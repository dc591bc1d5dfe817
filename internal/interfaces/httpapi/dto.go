package httpapi

import (
	"encoding/json"

	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	"github.com/riskibarqy/matchday-sync/internal/domain/player"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

type fixtureIDsRequest struct {
	FixtureIDs []int64 `json:"fixtureIds"`
	FixtureID  int64   `json:"fixtureId"`
}

type statsWorkerResponse struct {
	FixtureID     int64    `json:"fixture_id"`
	UpdatedFields []string `json:"updated_fields"`
	SyncedIDs     []int64  `json:"synced_ids"`
}

// statsWorkerErrorResponse carries the flags that did flip alongside the
// error of the branch that failed.
type statsWorkerErrorResponse struct {
	Error         string   `json:"error"`
	FixtureID     int64    `json:"fixture_id"`
	UpdatedFields []string `json:"updated_fields"`
	SyncedIDs     []int64  `json:"synced_ids"`
}

type lineupWorkerResponse struct {
	SyncedIDs []int64 `json:"synced_ids"`
	FailedIDs []int64 `json:"failed_ids"`
	Message   string  `json:"message,omitempty"`
}

type matchDetailsRequest struct {
	MatchID int64 `json:"matchId" validate:"required,gt=0"`
}

type teamIDRequest struct {
	TeamID int64 `json:"teamId" validate:"required,gt=0"`
}

type teamIDsRequest struct {
	TeamIDs []int64 `json:"teamIds" validate:"omitempty,dive,gt=0"`
}

type dateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type playerRequest struct {
	PlayerID int64 `json:"playerId" validate:"required,gt=0"`
	Season   int   `json:"season" validate:"omitempty,gt=0"`
}

type leagueIDRequest struct {
	LeagueID int64 `json:"leagueId" validate:"required,gt=0"`
}

type teamMappingRequest struct {
	AFLeagueID   int64  `json:"af_league_id" validate:"required,gt=0"`
	FDLeagueCode string `json:"fd_league_code" validate:"required"`
}

type standingsRequest struct {
	AFLeagueID   int64  `json:"af_league_id" validate:"required,gt=0"`
	FDLeagueCode string `json:"fd_league_code" validate:"required"`
	Season       int    `json:"season" validate:"required,gt=0"`
}

type predictionDTO struct {
	Date                  string  `json:"date"`
	DailyFixturesCost     float64 `json:"daily_fixtures_cost"`
	LineupsPredictedCost  float64 `json:"lineups_predicted_cost"`
	StatsPredictedCost    float64 `json:"stats_predicted_cost"`
	LiveSyncPredictedCost float64 `json:"live_sync_predicted_cost"`
	TotalPredictedCost    float64 `json:"total_predicted_cost"`
}

type usageDTO struct {
	Date       string         `json:"date"`
	Count      int            `json:"count"`
	Limit      int            `json:"limit"`
	Remaining  int            `json:"remaining"`
	Prediction *predictionDTO `json:"prediction"`
}

type venueDTO struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity *int   `json:"capacity"`
	Surface  string `json:"surface"`
	Image    string `json:"image"`
}

type teamDTO struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Code       string   `json:"code"`
	Country    string   `json:"country"`
	Founded    *int     `json:"founded"`
	Logo       string   `json:"logo"`
	IsNational bool     `json:"is_national"`
	Venue      venueDTO `json:"venue"`
}

type leagueDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Logo        string `json:"logo"`
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	CountryFlag string `json:"country_flag"`
}

type playerDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Age         *int            `json:"age"`
	Nationality string          `json:"nationality"`
	Photo       string          `json:"photo"`
	Height      string          `json:"height"`
	Weight      string          `json:"weight"`
	BirthDate   string          `json:"birth_date"`
	Injured     *bool           `json:"injured"`
	Statistics  json.RawMessage `json:"statistics,omitempty"`
}

func statsResponseFromResult(result usecase.StatsSyncResult) statsWorkerResponse {
	out := statsWorkerResponse{
		FixtureID:     result.FixtureID,
		UpdatedFields: result.UpdatedFields,
		SyncedIDs:     []int64{},
	}
	if out.UpdatedFields == nil {
		out.UpdatedFields = []string{}
	}
	if len(out.UpdatedFields) > 0 {
		out.SyncedIDs = []int64{result.FixtureID}
	}
	return out
}

func usageToDTO(s usecase.UsageSnapshot) usageDTO {
	out := usageDTO{Date: s.Date, Count: s.Count, Limit: s.Limit, Remaining: s.Remaining}
	if s.Prediction != nil {
		out.Prediction = predictionToDTO(*s.Prediction)
	}
	return out
}

func predictionToDTO(p quota.Prediction) *predictionDTO {
	dto := predictionDTO(p)
	return &dto
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:         t.ID,
		Name:       t.Name,
		Code:       t.Code,
		Country:    t.Country,
		Founded:    t.Founded,
		Logo:       t.Logo,
		IsNational: t.IsNational,
		Venue:      venueDTO(t.Venue),
	}
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO(l)
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO(p)
}
