package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
)

type QuotaRepository struct {
	mu          sync.Mutex
	counts      map[string]int
	predictions map[string]quota.Prediction
}

func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{
		counts:      make(map[string]int),
		predictions: make(map[string]quota.Prediction),
	}
}

func (r *QuotaRepository) Count(_ context.Context, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[date], nil
}

func (r *QuotaRepository) IncrementBelow(_ context.Context, date string, limit int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.counts[date]
	if current >= limit {
		return current, false, nil
	}
	r.counts[date] = current + 1
	return current + 1, true, nil
}

// Set seeds a counter for tests.
func (r *QuotaRepository) Set(date string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[date] = count
}

func (r *QuotaRepository) SavePrediction(_ context.Context, p quota.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.predictions[p.Date] = p
	return nil
}

func (r *QuotaRepository) GetPrediction(_ context.Context, date string) (quota.Prediction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.predictions[date]
	return p, ok, nil
}
