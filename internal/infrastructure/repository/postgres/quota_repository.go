package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

// incrementBelowSQL bumps the day's counter in one statement. The WHERE on
// the conflict branch makes the update a no-op once count reaches $2, in
// which case no row is returned.
const incrementBelowSQL = `INSERT INTO api_usage (date, count)
VALUES ($1, 1)
ON CONFLICT (date)
DO UPDATE SET count = api_usage.count + 1
WHERE api_usage.count < $2
RETURNING count`

type predictionModel struct {
	Date                  string  `db:"date"`
	DailyFixturesCost     float64 `db:"daily_fixtures_cost"`
	LineupsPredictedCost  float64 `db:"lineups_predicted_cost"`
	StatsPredictedCost    float64 `db:"stats_predicted_cost"`
	LiveSyncPredictedCost float64 `db:"live_sync_predicted_cost"`
	TotalPredictedCost    float64 `db:"total_predicted_cost"`
}

type QuotaRepository struct {
	db *sqlx.DB
}

func NewQuotaRepository(db *sqlx.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func (r *QuotaRepository) Count(ctx context.Context, date string) (int, error) {
	query, args, err := qb.Select("count").From("api_usage").Where(qb.Eq("date", date)).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build select api usage query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("select api usage date=%s: %w", date, err)
	}
	return count, nil
}

func (r *QuotaRepository) IncrementBelow(ctx context.Context, date string, limit int) (int, bool, error) {
	if limit <= 0 {
		count, err := r.Count(ctx, date)
		return count, false, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, incrementBelowSQL, date, limit); err != nil {
		if !isNotFound(err) {
			return 0, false, fmt.Errorf("increment api usage date=%s: %w", date, err)
		}
		current, countErr := r.Count(ctx, date)
		if countErr != nil {
			return 0, false, countErr
		}
		return current, false, nil
	}
	return count, true, nil
}

func (r *QuotaRepository) SavePrediction(ctx context.Context, p quota.Prediction) error {
	query, args, err := qb.InsertModel("api_usage_predictions", predictionModel(p), `ON CONFLICT (date)
DO UPDATE SET
    daily_fixtures_cost = EXCLUDED.daily_fixtures_cost,
    lineups_predicted_cost = EXCLUDED.lineups_predicted_cost,
    stats_predicted_cost = EXCLUDED.stats_predicted_cost,
    live_sync_predicted_cost = EXCLUDED.live_sync_predicted_cost,
    total_predicted_cost = EXCLUDED.total_predicted_cost,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction date=%s: %w", p.Date, err)
	}
	return nil
}

func (r *QuotaRepository) GetPrediction(ctx context.Context, date string) (quota.Prediction, bool, error) {
	query, args, err := qb.Select(
		"date",
		"daily_fixtures_cost::float8 AS daily_fixtures_cost",
		"lineups_predicted_cost::float8 AS lineups_predicted_cost",
		"stats_predicted_cost::float8 AS stats_predicted_cost",
		"live_sync_predicted_cost::float8 AS live_sync_predicted_cost",
		"total_predicted_cost::float8 AS total_predicted_cost",
	).From("api_usage_predictions").
		Where(qb.Eq("date", date)).
		ToSQL()
	if err != nil {
		return quota.Prediction{}, false, fmt.Errorf("build select prediction query: %w", err)
	}

	var row predictionModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return quota.Prediction{}, false, nil
		}
		return quota.Prediction{}, false, fmt.Errorf("select prediction date=%s: %w", date, err)
	}
	return quota.Prediction(row), true, nil
}
