package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

// maxRowsPerInsert keeps multi-row inserts well below the 65535 bind
// parameter limit of the wire protocol.
const maxRowsPerInsert = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// withTx runs fn inside one transaction; any error rolls everything back.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx %s: %w", name, err)
	}
	return nil
}

// insertChunked upserts models in batches of maxRowsPerInsert rows.
func insertChunked[T any](ctx context.Context, exec sqlx.ExecerContext, table string, models []T, suffix string) error {
	for start := 0; start < len(models); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(models))
		batch := make([]any, 0, end-start)
		for _, m := range models[start:end] {
			batch = append(batch, m)
		}

		query, args, err := qb.InsertModels(table, batch, suffix)
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s rows=%d: %w", table, end-start, err)
		}
	}
	return nil
}

// jsonText binds a raw document as text; lib/pq would send []byte as bytea,
// which jsonb columns reject.
func jsonText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
