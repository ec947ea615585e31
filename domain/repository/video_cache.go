package repository

import (
	"context"
	"time"

	"viewtube/domain/model"
)

// IVideoCache is the optional cache-aside store for single-video lookups.
// It is never consulted on list/search paths, which stay deterministic.
type IVideoCache interface {
	Get(ctx context.Context, id string) (*model.Video, error)
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
