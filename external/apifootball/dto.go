package apifootball

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// flexInt accepts numbers, numeric strings and null. Provider counters flip
// between those shapes depending on the endpoint.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		return nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		*f = flexInt{Value: n, Valid: true}
		return nil
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*f = flexInt{Value: int(v), Valid: true}
	}
	return nil
}

func (f flexInt) Ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexString keeps any scalar as text. Ratings arrive as "7.3", pass
// accuracy as 81 or "81%", statistic values as numbers, strings or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*f = ""
	case data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		*f = flexString(data)
	}
	return nil
}

type teamRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type personRefDTO struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type scorePairDTO struct {
	Home flexInt `json:"home"`
	Away flexInt `json:"away"`
}

type fixtureItemDTO struct {
	Fixture struct {
		ID       int64  `json:"id"`
		Referee  string `json:"referee"`
		Timezone string `json:"timezone"`
		Date     string `json:"date"`
		Venue    struct {
			ID   *int64 `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string  `json:"long"`
			Short   string  `json:"short"`
			Elapsed flexInt `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Season flexInt `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRefDTO `json:"home"`
		Away teamRefDTO `json:"away"`
	} `json:"teams"`
	Goals scorePairDTO `json:"goals"`
	Score struct {
		Halftime  scorePairDTO `json:"halftime"`
		Fulltime  scorePairDTO `json:"fulltime"`
		Extratime scorePairDTO `json:"extratime"`
		Penalty   scorePairDTO `json:"penalty"`
	} `json:"score"`
	Events []eventDTO `json:"events"`
}

type eventDTO struct {
	Time struct {
		Elapsed flexInt `json:"elapsed"`
		Extra   flexInt `json:"extra"`
	} `json:"time"`
	Team     teamRefDTO   `json:"team"`
	Player   personRefDTO `json:"player"`
	Assist   personRefDTO `json:"assist"`
	Type     string       `json:"type"`
	Detail   string       `json:"detail"`
	Comments flexString   `json:"comments"`
}

type lineupPlayerDTO struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Number flexInt `json:"number"`
	Pos    string  `json:"pos"`
	Grid   string  `json:"grid"`
}

type lineupItemDTO struct {
	Team      teamRefDTO `json:"team"`
	Formation string     `json:"formation"`
	Coach     struct {
		Name string `json:"name"`
	} `json:"coach"`
	StartXI []struct {
		Player lineupPlayerDTO `json:"player"`
	} `json:"startXI"`
	Substitutes []struct {
		Player lineupPlayerDTO `json:"player"`
	} `json:"substitutes"`
}

type teamStatisticsDTO struct {
	Team       teamRefDTO `json:"team"`
	Statistics []struct {
		Type  string     `json:"type"`
		Value flexString `json:"value"`
	} `json:"statistics"`
}

type teamPlayersDTO struct {
	Team    teamRefDTO `json:"team"`
	Players []struct {
		Player struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Photo string `json:"photo"`
		} `json:"player"`
		Statistics []json.RawMessage `json:"statistics"`
	} `json:"players"`
}

type playerStatLineDTO struct {
	Games struct {
		Minutes    flexInt    `json:"minutes"`
		Number     flexInt    `json:"number"`
		Position   string     `json:"position"`
		Rating     flexString `json:"rating"`
		Captain    bool       `json:"captain"`
		Substitute bool       `json:"substitute"`
	} `json:"games"`
	Goals struct {
		Total   flexInt `json:"total"`
		Assists flexInt `json:"assists"`
	} `json:"goals"`
	Shots struct {
		Total flexInt `json:"total"`
	} `json:"shots"`
	Passes struct {
		Total    flexInt    `json:"total"`
		Accuracy flexString `json:"accuracy"`
	} `json:"passes"`
	Tackles struct {
		Total         flexInt `json:"total"`
		Interceptions flexInt `json:"interceptions"`
	} `json:"tackles"`
	Duels struct {
		Won flexInt `json:"won"`
	} `json:"duels"`
	Dribbles struct {
		Success flexInt `json:"success"`
	} `json:"dribbles"`
	Cards struct {
		Yellow flexInt `json:"yellow"`
		Red    flexInt `json:"red"`
	} `json:"cards"`
}

type teamItemDTO struct {
	Team struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Code     string  `json:"code"`
		Country  string  `json:"country"`
		Founded  flexInt `json:"founded"`
		Logo     string  `json:"logo"`
		National bool    `json:"national"`
	} `json:"team"`
	Venue struct {
		Name     string  `json:"name"`
		City     string  `json:"city"`
		Capacity flexInt `json:"capacity"`
		Surface  string  `json:"surface"`
		Image    string  `json:"image"`
	} `json:"venue"`
}

type squadItemDTO struct {
	Team    teamRefDTO      `json:"team"`
	Players json.RawMessage `json:"players"`
}

type squadPlayerDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Age      flexInt `json:"age"`
	Number   flexInt `json:"number"`
	Position string  `json:"position"`
	Photo    string  `json:"photo"`
}

type leagueItemDTO struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
}

type playerItemDTO struct {
	Player struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Age         flexInt `json:"age"`
		Nationality string  `json:"nationality"`
		Photo       string  `json:"photo"`
		Height      string  `json:"height"`
		Weight      string  `json:"weight"`
		Birth       struct {
			Date string `json:"date"`
		} `json:"birth"`
		Injured *bool `json:"injured"`
	} `json:"player"`
	Statistics json.RawMessage `json:"statistics"`
}
