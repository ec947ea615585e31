package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"viewtube/domain/model"

	"github.com/redis/go-redis/v9"
)

const videoKeyPrefix = "video:"

// VideoCache implements repository.IVideoCache on Redis. Only single-video
// lookups go through here; list queries always hit the store.
type VideoCache struct {
	client *redis.Client
}

func NewVideoCache(client *redis.Client) *VideoCache {
	return &VideoCache{client: client}
}

func videoKey(id string) string {
	return videoKeyPrefix + id
}

func (c *VideoCache) Get(ctx context.Context, id string) (*model.Video, error) {
	raw, err := c.client.Get(ctx, videoKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: cached video %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var video model.Video
	if err := json.Unmarshal([]byte(raw), &video); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &video, nil
}

func (c *VideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	raw, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, videoKey(video.ID.Hex()), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *VideoCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, videoKey(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
