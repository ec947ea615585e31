package pubsub

import (
	"context"
	"fmt"

	"viewtube/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// NewPubSub creates the Pub/Sub client used for catalog lifecycle events.
// Callers treat a nil client as "events disabled".
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	logger.GetLogger().WithField("projectID", projectID).Info("Connected to Pub/Sub")
	return client, nil
}
