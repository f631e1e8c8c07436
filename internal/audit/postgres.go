package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder appends audit entries to the agent_log table. It is
// the preferred, durable backend.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder wraps an existing connection pool.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// EnsureSchema creates the agent_log table if it does not exist.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS agent_log (
			id         BIGSERIAL PRIMARY KEY,
			kind       TEXT NOT NULL,
			user_id    TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			entry      JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create agent_log table: %w", err)
	}
	return nil
}

// RecordCycle appends one cycle entry.
func (r *PostgresRecorder) RecordCycle(ctx context.Context, entry CycleEntry) error {
	return r.insert(ctx, "cycle", entry.UserID, entry)
}

// RecordFleet appends one fleet summary entry.
func (r *PostgresRecorder) RecordFleet(ctx context.Context, entry FleetEntry) error {
	return r.insert(ctx, "fleet", "", entry)
}

func (r *PostgresRecorder) insert(ctx context.Context, kind, userID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO agent_log (kind, user_id, entry) VALUES ($1, NULLIF($2, ''), $3::jsonb)`,
		kind, userID, data)
	if err != nil {
		return fmt.Errorf("insert agent_log: %w", err)
	}
	return nil
}
