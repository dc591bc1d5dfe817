package team

import "fmt"

type Venue struct {
	Name     string
	City     string
	Capacity *int
	Surface  string
	Image    string
}

// Team is a club or national side keyed by its API-Football id.
type Team struct {
	ID         int64
	Name       string
	Code       string
	Country    string
	Founded    *int
	Logo       string
	IsNational bool
	Venue      Venue
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
