package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

// QuotaLedger meters calls to the upstream provider against a per-UTC-day
// ceiling. Ensure is a cheap pre-check; Consume is the authoritative,
// atomic increment and is only called after a successful, stored call.
type QuotaLedger struct {
	repo    quota.Repository
	limit   int
	metrics *metrics.Recorder
	logger  *logging.Logger
	now     func() time.Time
}

type UsageSnapshot struct {
	Date       string            `json:"date"`
	Count      int               `json:"count"`
	Limit      int               `json:"limit"`
	Remaining  int               `json:"remaining"`
	Prediction *quota.Prediction `json:"prediction,omitempty"`
}

func NewQuotaLedger(repo quota.Repository, limit int, recorder *metrics.Recorder, logger *logging.Logger) *QuotaLedger {
	if limit <= 0 {
		limit = quota.DefaultDailyLimit
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &QuotaLedger{
		repo:    repo,
		limit:   limit,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

func (l *QuotaLedger) Limit() int {
	return l.limit
}

func (l *QuotaLedger) Count(ctx context.Context, date string) (int, error) {
	count, err := l.repo.Count(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("read api usage date=%s: %w", date, err)
	}
	return count, nil
}

// Ensure fails with ErrQuotaExhausted once today's counter reached the limit.
func (l *QuotaLedger) Ensure(ctx context.Context) error {
	date := quota.DateKey(l.now())
	count, err := l.Count(ctx, date)
	if err != nil {
		return err
	}
	if count >= l.limit {
		l.metrics.QuotaRejected("ensure")
		l.logger.WarnContext(ctx, "daily api quota reached", "date", date, "count", count, "limit", l.limit)
		return fmt.Errorf("%w: %d/%d calls used on %s", ErrQuotaExhausted, count, l.limit, date)
	}
	return nil
}

// Consume charges one call to today's counter. Concurrent finishers cannot
// push the counter past the limit; the loser gets ErrQuotaExhausted.
func (l *QuotaLedger) Consume(ctx context.Context) (int, error) {
	date := quota.DateKey(l.now())
	count, ok, err := l.repo.IncrementBelow(ctx, date, l.limit)
	if err != nil {
		return 0, fmt.Errorf("increment api usage date=%s: %w", date, err)
	}
	if !ok {
		l.metrics.QuotaRejected("consume")
		return count, fmt.Errorf("%w: limit %d reached on %s", ErrQuotaExhausted, l.limit, date)
	}
	l.metrics.QuotaConsumed()
	return count, nil
}

// Snapshot reports today's usage with the stored forecast when one exists.
func (l *QuotaLedger) Snapshot(ctx context.Context) (UsageSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuotaLedger.Snapshot")
	defer span.End()

	date := quota.DateKey(l.now())
	count, err := l.Count(ctx, date)
	if err != nil {
		return UsageSnapshot{}, err
	}

	out := UsageSnapshot{
		Date:      date,
		Count:     count,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
	}

	prediction, ok, err := l.repo.GetPrediction(ctx, date)
	if err != nil {
		return UsageSnapshot{}, fmt.Errorf("read usage prediction date=%s: %w", date, err)
	}
	if ok {
		out.Prediction = &prediction
	}
	return out, nil
}

// chargeQuota records a completed upstream call after its data was stored.
// A lost race on the ceiling is only logged since the stored data is valid.
func chargeQuota(ctx context.Context, ledger *QuotaLedger, logger *logging.Logger, op string) {
	if _, err := ledger.Consume(ctx); err != nil {
		logger.WarnContext(ctx, "quota consume after store failed", "operation", op, "error", err)
	}
}
