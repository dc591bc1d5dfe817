package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent records one manager to worker invocation.
type DispatchEvent struct {
	DispatchID   string
	Manager      string
	Worker       string
	Status       DispatchStatus
	FixtureIDs   []int64
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
