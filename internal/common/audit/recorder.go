// Package audit keeps a Postgres trail of workflow outcomes. Recording is a
// side effect: callers log failures and carry on.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"outy-workers/internal/common/logger"
)

// Event is one workflow operation outcome.
type Event struct {
	Operation    string
	ExpressJobID int64
	ActorUserID  int64
	Outcome      string // "success" or an error code
	Details      map[string]interface{}
	OccurredAt   time.Time
}

// Recorder stores events.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// PostgresRecorder writes events to the workflow_audit table.
type PostgresRecorder struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresRecorder(db *sql.DB, log logger.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, logger: logger.OrNop(log)}
}

const insertEvent = `
		INSERT INTO workflow_audit (operation, express_job_id, actor_user_id, outcome, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

func (r *PostgresRecorder) Record(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	detailsJSON := []byte("{}")
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			r.logger.Warn("failed to marshal audit details", map[string]interface{}{
				"operation": e.Operation,
				"error":     err,
			})
		} else {
			detailsJSON = b
		}
	}

	_, err := r.db.ExecContext(ctx, insertEvent,
		e.Operation,
		e.ExpressJobID,
		e.ActorUserID,
		e.Outcome,
		detailsJSON,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("audit insert failed: %w", err)
	}
	return nil
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

// Schema creates the audit table; used by deployment tooling and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS workflow_audit (
	id             BIGSERIAL PRIMARY KEY,
	operation      TEXT        NOT NULL,
	express_job_id BIGINT      NOT NULL,
	actor_user_id  BIGINT      NOT NULL,
	outcome        TEXT        NOT NULL,
	details        JSONB       NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the audit table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}
