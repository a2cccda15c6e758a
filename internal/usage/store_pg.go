package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore implements Store on the ai_usage table.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Used(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	var used int
	err := s.DB.QueryRowContext(ctx, `
SELECT used FROM ai_usage WHERE user_id = $1 AND week_start = $2`, userID, weekStart).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

// Consume increments atomically; the WHERE clause on the conflict update keeps
// the counter from passing limit under concurrent requests.
func (s *PGStore) Consume(ctx context.Context, userID string, weekStart time.Time, n, limit int) (int, error) {
	if n > limit {
		return 0, ErrLimitReached
	}
	var used int
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO ai_usage (user_id, week_start, used, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, week_start) DO UPDATE
SET used = ai_usage.used + EXCLUDED.used, updated_at = NOW()
WHERE ai_usage.used + EXCLUDED.used <= $4
RETURNING used`, userID, weekStart, n, limit).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrLimitReached
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

func (s *PGStore) Reset(ctx context.Context, userID string, weekStart time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
DELETE FROM ai_usage WHERE user_id = $1 AND week_start = $2`, userID, weekStart)
	return err
}
