package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists processed-id sets in the agent_state table.
// It is the preferred, durable backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the agent_state table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS agent_state (
			user_id       TEXT PRIMARY KEY,
			processed_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create agent_state table: %w", err)
	}
	return nil
}

// Load reads the user's set. A missing row yields an empty set.
func (s *PostgresStore) Load(ctx context.Context, userID string) (*ProcessedSet, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT processed_ids FROM agent_state WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return NewProcessedSet(), nil
		}
		return nil, fmt.Errorf("select agent_state: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode processed_ids: %w", err)
	}
	return FromIDs(ids), nil
}

// Save upserts the user's set.
func (s *PostgresStore) Save(ctx context.Context, userID string, set *ProcessedSet) error {
	ids, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("encode processed_ids: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO agent_state (user_id, processed_ids, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET processed_ids = EXCLUDED.processed_ids, updated_at = EXCLUDED.updated_at`,
		userID, ids, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert agent_state: %w", err)
	}
	return nil
}
