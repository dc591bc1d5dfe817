package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

const (
	dailyOverheadCost     = 3.0
	lineupCallCost        = 1.2
	statsCallCost         = 2.5
	lineupLeadTime        = 50 * time.Minute
	statsLagTime          = 120 * time.Minute
	liveMatchLength       = 120 * time.Minute
	liveSlotLength        = 5 * time.Minute
	liveSlotsPerDay       = 288
	liveFixturesPerCall   = 20
	predictionSearchSlack = 150 * time.Minute
)

// PredictCost forecasts the upstream cost of the API day that starts at
// dayStart for the given kickoffs. Kickoffs may precede dayStart; matches
// still running after midnight are charged to the live slots they overlap.
func PredictCost(dayStart time.Time, kickoffs []time.Time) quota.Prediction {
	dayEnd := dayStart.Add(24 * time.Hour)

	var lineups, stats float64
	for _, kickoff := range kickoffs {
		if withinDay(kickoff.Add(-lineupLeadTime), dayStart, dayEnd) {
			lineups += lineupCallCost
		}
		if withinDay(kickoff.Add(statsLagTime), dayStart, dayEnd) {
			stats += statsCallCost
		}
	}

	var live float64
	for slot := 0; slot < liveSlotsPerDay; slot++ {
		slotStart := dayStart.Add(time.Duration(slot) * liveSlotLength)
		slotEnd := slotStart.Add(liveSlotLength)

		overlapping := 0
		for _, kickoff := range kickoffs {
			matchEnd := kickoff.Add(liveMatchLength)
			if kickoff.Before(slotEnd) && matchEnd.After(slotStart) {
				overlapping++
			}
		}
		if overlapping > 0 {
			live += math.Ceil(float64(overlapping) / liveFixturesPerCall)
		}
	}

	return quota.Prediction{
		Date:                  quota.DateKey(dayStart),
		DailyFixturesCost:     dailyOverheadCost,
		LineupsPredictedCost:  roundTenth(lineups),
		StatsPredictedCost:    roundTenth(stats),
		LiveSyncPredictedCost: roundTenth(live),
		TotalPredictedCost:    roundTenth(dailyOverheadCost + lineups + stats + live),
	}
}

func withinDay(t, dayStart, dayEnd time.Time) bool {
	return !t.Before(dayStart) && t.Before(dayEnd)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// UsagePredictionService persists the forecast for the current API day.
type UsagePredictionService struct {
	fixtureRepo fixture.Repository
	quotaRepo   quota.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewUsagePredictionService(fixtureRepo fixture.Repository, quotaRepo quota.Repository, logger *logging.Logger) *UsagePredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UsagePredictionService{
		fixtureRepo: fixtureRepo,
		quotaRepo:   quotaRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *UsagePredictionService) Predict(ctx context.Context) (quota.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UsagePredictionService.Predict")
	defer span.End()

	dayStart := quota.DayStart(s.now())
	dayEnd := dayStart.Add(24 * time.Hour)

	kickoffs, err := s.fixtureRepo.ListKickoffsBetween(ctx, dayStart.Add(-predictionSearchSlack), dayEnd)
	if err != nil {
		return quota.Prediction{}, fmt.Errorf("list kickoffs for %s: %w", quota.DateKey(dayStart), err)
	}

	prediction := PredictCost(dayStart, kickoffs)
	if err := s.quotaRepo.SavePrediction(ctx, prediction); err != nil {
		return quota.Prediction{}, fmt.Errorf("save usage prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "usage prediction stored",
		"date", prediction.Date,
		"fixtures", len(kickoffs),
		"total", prediction.TotalPredictedCost,
	)
	return prediction, nil
}
