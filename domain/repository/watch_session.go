package repository

import (
	"context"
	"time"

	"viewtube/domain/model"
)

type IWatchSession interface {
	// Record adds seconds watched to the user's bucket for the given day.
	Record(ctx context.Context, userID string, day time.Time, seconds int64) error
	// Summary returns per-day totals for the trailing window, newest first.
	Summary(ctx context.Context, userID string, since time.Time) ([]model.WatchSummary, error)
}
