package persistence

import (
	"context"
	"fmt"
	"time"

	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// NewMongoDatabase connects to the configured MongoDB deployment and returns
// the application database handle.
func NewMongoDatabase(ctx context.Context, cfg configuration.Db) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI()).
		SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.GetLogger().WithField("database", cfg.Name).Info("Connected to MongoDB")
	return client.Database(cfg.Name), nil
}
