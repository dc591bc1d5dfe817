package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu     sync.Mutex
	events []jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

func (r *JobDispatchRepository) Events() []jobscheduler.DispatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}
