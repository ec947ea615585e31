package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"viewtube/domain/model"
)

// WatchSessionRepository accumulates per-day viewing seconds in PostgreSQL.
type WatchSessionRepository struct {
	db *sql.DB
}

func NewWatchSessionRepository(db *sql.DB) *WatchSessionRepository {
	return &WatchSessionRepository{db: db}
}

// EnsureWatchSessionSchema creates the analytics table when missing.
func EnsureWatchSessionSchema(ctx context.Context, db *sql.DB) error {
	q := `CREATE TABLE IF NOT EXISTS watch_sessions (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT NOT NULL,
        day DATE NOT NULL,
        seconds_watched BIGINT NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE (user_id, day)
    )`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure watch_sessions schema: %w", err)
	}
	return nil
}

func (r *WatchSessionRepository) Record(ctx context.Context, userID string, day time.Time, seconds int64) error {
	q := `INSERT INTO watch_sessions (user_id, day, seconds_watched, created_at, updated_at)
          VALUES ($1, $2, $3, $4, $4)
          ON CONFLICT (user_id, day) DO UPDATE SET
            seconds_watched = watch_sessions.seconds_watched + EXCLUDED.seconds_watched,
            updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, q, userID, day, seconds, now); err != nil {
		return fmt.Errorf("%w: record watch session: %w", model.ErrQueryFailed, err)
	}
	return nil
}

func (r *WatchSessionRepository) Summary(ctx context.Context, userID string, since time.Time) ([]model.WatchSummary, error) {
	q := `SELECT day, seconds_watched FROM watch_sessions
          WHERE user_id = $1 AND day >= $2
          ORDER BY day DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: watch summary: %w", model.ErrQueryFailed, err)
	}
	defer rows.Close()

	summaries := []model.WatchSummary{}
	for rows.Next() {
		var day time.Time
		var seconds int64
		if err := rows.Scan(&day, &seconds); err != nil {
			return nil, fmt.Errorf("%w: scan watch summary: %w", model.ErrQueryFailed, err)
		}
		summaries = append(summaries, model.WatchSummary{
			Day:            day.Format("2006-01-02"),
			SecondsWatched: seconds,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate watch summary: %w", model.ErrQueryFailed, err)
	}
	return summaries, nil
}
