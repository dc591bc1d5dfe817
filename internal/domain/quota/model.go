package quota

import "time"

const DefaultDailyLimit = 95

const dateLayout = "2006-01-02"

// DateKey is the UTC calendar date the provider resets its quota on.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DayStart returns UTC midnight of the day containing t.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDateKey(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

type Usage struct {
	Date  string
	Count int
}

// Prediction is the persisted forecast of one API day's upstream cost.
type Prediction struct {
	Date                  string
	DailyFixturesCost     float64
	LineupsPredictedCost  float64
	StatsPredictedCost    float64
	LiveSyncPredictedCost float64
	TotalPredictedCost    float64
}
