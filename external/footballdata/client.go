package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org"
	providerName   = "football_data"
	totalTable     = "TOTAL"
)

var (
	// ErrRateLimited means the free tier allowance for the current minute is spent.
	ErrRateLimited = crerr.New("football-data rate limit exceeded, wait 1 minute")
	// ErrPlanRestricted means the token's plan does not cover the competition or season.
	ErrPlanRestricted = crerr.New("football-data plan does not cover this competition or season")
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	Logger     *logging.Logger
	Metrics    *metrics.Recorder
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logging.Logger
	metrics    *metrics.Recorder
}

var _ usecase.StandingsProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		logger:     logger.With("component", "football_data"),
		metrics:    cfg.Metrics,
	}
}

type standingsResponse struct {
	Standings []struct {
		Stage string     `json:"stage"`
		Type  string     `json:"type"`
		Table []tableRow `json:"table"`
	} `json:"standings"`
}

type tableRow struct {
	Position int `json:"position"`
	Team     struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		ShortName string `json:"shortName"`
		TLA       string `json:"tla"`
	} `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           *string `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// FetchStandings returns the overall table of a competition. season <= 0
// asks for the current season. A response without any table yields an
// empty slice.
func (c *Client) FetchStandings(ctx context.Context, competitionCode string, season int) ([]usecase.ExternalStandingRow, error) {
	code := strings.ToUpper(strings.TrimSpace(competitionCode))
	if code == "" {
		return nil, fmt.Errorf("%w: competition code is required", usecase.ErrInvalidInput)
	}

	endpoint := "/v4/competitions/" + url.PathEscape(code) + "/standings"
	fullURL := c.baseURL + endpoint
	if season > 0 {
		fullURL += "?season=" + strconv.Itoa(season)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-Auth-Token", c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequest(providerName, "standings", 0, time.Since(start))
		return nil, fmt.Errorf("%w: football-data request: %w", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.UpstreamRequest(providerName, "standings", resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, crerr.Wrap(err, "read standings body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, ErrRateLimited)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: competition=%s season=%d", ErrPlanRestricted, code, season)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, crerr.Newf("football-data status=%d body=%s", resp.StatusCode, abbreviate(body))
	}

	var payload standingsResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, crerr.Wrapf(err, "decode standings competition=%s", code)
	}

	table := pickTable(payload)
	if table == nil {
		c.logger.WarnContext(ctx, "standings response has no table", "competition", code, "season", season, "body", abbreviate(body))
		return []usecase.ExternalStandingRow{}, nil
	}

	rows := make([]usecase.ExternalStandingRow, 0, len(table))
	for _, row := range table {
		form := ""
		if row.Form != nil {
			form = *row.Form
		}
		rows = append(rows, usecase.ExternalStandingRow{
			TeamID:         row.Team.ID,
			TeamName:       row.Team.Name,
			ShortName:      row.Team.ShortName,
			Position:       row.Position,
			PlayedGames:    row.PlayedGames,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Form:           form,
		})
	}
	return rows, nil
}

// pickTable prefers the TOTAL table; competitions without home/away splits
// only send one, so the first table is the fallback.
func pickTable(payload standingsResponse) []tableRow {
	for _, s := range payload.Standings {
		if strings.EqualFold(s.Type, totalTable) {
			return s.Table
		}
	}
	if len(payload.Standings) > 0 {
		return payload.Standings[0].Table
	}
	return nil
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
