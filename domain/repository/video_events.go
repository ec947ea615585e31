package repository

import (
	"context"

	"viewtube/domain/model"
)

// IVideoEvents publishes catalog lifecycle events for downstream consumers
// (notification fan-out, analytics). A nil-backed implementation is a no-op.
type IVideoEvents interface {
	PublishUploaded(ctx context.Context, video *model.Video) error
	PublishDeleted(ctx context.Context, videoID string) error
}
