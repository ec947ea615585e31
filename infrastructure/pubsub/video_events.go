package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"viewtube/domain/model"
	"viewtube/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

const (
	topicVideoUploaded = "video-uploaded"
	topicVideoDeleted  = "video-deleted"
)

// VideoEvents publishes catalog lifecycle events for downstream consumers.
type VideoEvents struct {
	client *pubsub.Client
}

func NewVideoEvents(client *pubsub.Client) *VideoEvents {
	return &VideoEvents{client: client}
}

type uploadedEvent struct {
	VideoID    string `json:"videoId"`
	Title      string `json:"title"`
	UploaderID string `json:"uploaderId"`
	Category   string `json:"category"`
}

type deletedEvent struct {
	VideoID string `json:"videoId"`
}

func (e *VideoEvents) PublishUploaded(ctx context.Context, video *model.Video) error {
	payload, err := json.Marshal(uploadedEvent{
		VideoID:    video.ID.Hex(),
		Title:      video.Title,
		UploaderID: video.UploadedByID.Hex(),
		Category:   video.Category,
	})
	if err != nil {
		return fmt.Errorf("encode uploaded event: %w", err)
	}
	return e.publish(ctx, topicVideoUploaded, payload)
}

func (e *VideoEvents) PublishDeleted(ctx context.Context, videoID string) error {
	payload, err := json.Marshal(deletedEvent{VideoID: videoID})
	if err != nil {
		return fmt.Errorf("encode deleted event: %w", err)
	}
	return e.publish(ctx, topicVideoDeleted, payload)
}

func (e *VideoEvents) publish(ctx context.Context, topicName string, payload []byte) error {
	topic := e.client.Topic(topicName)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check topic %s: %w", topicName, err)
	}
	if !exists {
		if _, err := e.client.CreateTopic(ctx, topicName); err != nil {
			return fmt.Errorf("create topic %s: %w", topicName, err)
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topicName, err)
	}
	logger.GetLogger().WithField("serverID", serverID).Info("Message published")
	return nil
}
