package persistence

import (
	"context"
	"fmt"

	"viewtube/domain/model"
	"viewtube/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const historyCollection = "histories"

type HistoryRepository struct {
	db *mongo.Database
}

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) collection() *mongo.Collection {
	return r.db.Collection(historyCollection)
}

// Upsert keys on (userId, videoId) so a rewatch refreshes the existing entry.
func (r *HistoryRepository) Upsert(ctx context.Context, userID, videoID bson.ObjectID, watchDuration int64) (*model.HistoryEntry, error) {
	filter := bson.M{"userId": userID, "videoId": videoID}
	update := bson.M{
		"$set": bson.M{
			"watchedAt":     utils.GetCurrentTime(),
			"watchDuration": watchDuration,
		},
		"$setOnInsert": filter,
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entry model.HistoryEntry
	if err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry); err != nil {
		return nil, fmt.Errorf("%w: upsert history: %w", model.ErrQueryFailed, err)
	}
	return &entry, nil
}

// Recent attaches the watched video and its uploader; entries whose video was
// deleted unwind away.
func (r *HistoryRepository) Recent(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.HistoryEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"userId": userID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "watchedAt", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         videoCollection,
			"localField":   "videoId",
			"foreignField": "_id",
			"as":           "video",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$video"}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userCollection,
			"localField":   "video.uploadedBy",
			"foreignField": "_id",
			"as":           "video.uploader",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$video.uploader",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: recent history: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	entries := []model.HistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode history: %w", model.ErrQueryFailed, err)
	}
	return entries, nil
}

func (r *HistoryRepository) Clear(ctx context.Context, userID bson.ObjectID) error {
	if _, err := r.collection().DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("%w: clear history: %w", model.ErrQueryFailed, err)
	}
	return nil
}

func (r *HistoryRepository) DeleteEntry(ctx context.Context, userID, entryID bson.ObjectID) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": entryID, "userId": userID})
	if err != nil {
		return fmt.Errorf("%w: delete history entry: %w", model.ErrQueryFailed, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: history entry %s", model.ErrNotFound, entryID.Hex())
	}
	return nil
}
