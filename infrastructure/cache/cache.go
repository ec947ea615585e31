package cache

import (
	"context"
	"fmt"

	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to the configured Redis instance. Callers treat a nil
// client as "cache disabled".
func NewCache(ctx context.Context, cfg configuration.RedisClient) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.GetLogger().WithField("addr", client.Options().Addr).Info("Connected to Redis")
	return client, nil
}
