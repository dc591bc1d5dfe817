package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

// UpsertEvent records a transition of one dispatch. Each status owns its own
// timestamp and trace columns, so a late "sent" never erases a completion.
func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	query, args, err := buildDispatchUpsert(event)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch id=%s: %w", event.DispatchID, err)
	}
	return nil
}

func buildDispatchUpsert(event jobscheduler.DispatchEvent) (string, []any, error) {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return "", nil, fmt.Errorf("dispatch id is required")
	}

	var prefix string
	switch event.Status {
	case jobscheduler.StatusSent:
		prefix = "sent"
	case jobscheduler.StatusCompleted:
		prefix = "completed"
	case jobscheduler.StatusFailed:
		prefix = "failed"
	default:
		return "", nil, fmt.Errorf("unknown dispatch status %q", event.Status)
	}

	manager := strings.TrimSpace(event.Manager)
	if manager == "" {
		manager = "unknown"
	}
	worker := strings.TrimSpace(event.Worker)
	if worker == "" {
		worker = "unknown"
	}
	occurredAt := event.OccurredAt.UTC()
	if event.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	payload, err := marshalPayload(event.Payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal job dispatch payload: %w", err)
	}
	fixtureIDs := event.FixtureIDs
	if fixtureIDs == nil {
		fixtureIDs = []int64{}
	}

	var lastError *string
	if event.Status == jobscheduler.StatusFailed {
		lastError = optionalString(strings.TrimSpace(event.ErrorMessage))
	}

	timeCol := prefix + "_at"
	traceCol := prefix + "_trace_id"
	spanCol := prefix + "_span_id"

	return qb.InsertInto("job_dispatches").
		Columns("dispatch_id", "manager", "worker", "status", "fixture_ids", "payload", "last_error", timeCol, traceCol, spanCol).
		Values(
			dispatchID,
			manager,
			worker,
			string(event.Status),
			pq.Array(fixtureIDs),
			payload,
			lastError,
			occurredAt,
			optionalString(event.TraceID),
			optionalString(event.SpanID),
		).
		Suffix(fmt.Sprintf(`ON CONFLICT (dispatch_id)
DO UPDATE SET
    manager = EXCLUDED.manager,
    worker = EXCLUDED.worker,
    status = EXCLUDED.status,
    fixture_ids = EXCLUDED.fixture_ids,
    payload = EXCLUDED.payload,
    last_error = EXCLUDED.last_error,
    %[1]s = EXCLUDED.%[1]s,
    %[2]s = EXCLUDED.%[2]s,
    %[3]s = EXCLUDED.%[3]s,
    updated_at = NOW()`, timeCol, traceCol, spanCol)).
		ToSQL()
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
