package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	videoCollection = "videos"
	userCollection  = "users"
)

// VideoRepository implements repository.IVideo on MongoDB. List-shaped reads
// go through one aggregation pipeline so every path attaches the uploader
// summary the same way.
type VideoRepository struct {
	db *mongo.Database
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) collection() *mongo.Collection {
	return r.db.Collection(videoCollection)
}

// buildVideoFilter translates the store-facing query into the $match stage
// that runs before the uploader lookup. Text matching is appended after the
// lookup so it can reach the channel name.
func buildVideoFilter(query repository.VideoQuery) bson.M {
	filter := bson.M{"isPublished": true}

	if query.Category != "" {
		filter["category"] = query.Category
	}
	if len(query.Categories) > 0 {
		filter["category"] = bson.M{"$in": query.Categories}
	}
	if len(query.Tags) > 0 {
		filter["tags"] = bson.M{"$in": query.Tags}
	}
	if query.CreatedAfter != nil {
		filter["createdAt"] = bson.M{"$gte": *query.CreatedAfter}
	}
	if query.MinDuration != nil || query.MaxDuration != nil {
		duration := bson.M{}
		if query.MinDuration != nil {
			duration["$gte"] = *query.MinDuration
		}
		if query.MaxDuration != nil {
			duration["$lte"] = *query.MaxDuration
		}
		filter["duration"] = duration
	}
	if len(query.Uploaders) > 0 {
		filter["uploadedBy"] = bson.M{"$in": query.Uploaders}
	}
	if len(query.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": query.ExcludeIDs}
	}
	return filter
}

func textFilter(query repository.VideoQuery) bson.M {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(query.Text), Options: "i"}
	or := []bson.M{
		{"title": pattern},
		{"description": pattern},
		{"tags": pattern},
	}
	if query.SearchChannelName {
		or = append(or, bson.M{"uploader.channelName": pattern})
	}
	return bson.M{"$or": or}
}

func sortStage(sort repository.VideoSort) bson.D {
	switch sort {
	case repository.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case repository.SortPopular:
		return bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: -1}}
	case repository.SortPopularRecent:
		return bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	case repository.SortTrending:
		return bson.D{{Key: "views", Value: -1}, {Key: "likesCount", Value: -1}}
	case repository.SortRating:
		return bson.D{{Key: "likesCount", Value: -1}, {Key: "views", Value: -1}}
	default: // SortRecent
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// basePipeline is the shared prefix of Find and Count: pre-lookup filter,
// uploader attach, then the text filter over the joined document.
func basePipeline(query repository.VideoQuery) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildVideoFilter(query)}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userCollection,
			"localField":   "uploadedBy",
			"foreignField": "_id",
			"as":           "uploader",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$uploader",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
	if query.Text != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: textFilter(query)}})
	}
	return pipeline
}

func (r *VideoRepository) Find(ctx context.Context, query repository.VideoQuery) ([]model.Video, error) {
	pipeline := append(basePipeline(query),
		bson.D{{Key: "$addFields", Value: bson.M{
			"likesCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
		}}},
		bson.D{{Key: "$sort", Value: sortStage(query.Sort)}},
	)
	if query.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: query.Skip}})
	}
	if query.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: query.Limit}})
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: find videos: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("%w: decode videos: %w", model.ErrQueryFailed, err)
	}
	return videos, nil
}

func (r *VideoRepository) Count(ctx context.Context, query repository.VideoQuery) (int64, error) {
	pipeline := append(basePipeline(query), bson.D{{Key: "$count", Value: "total"}})

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("%w: count videos: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("%w: decode count: %w", model.ErrQueryFailed, err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Video, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userCollection,
			"localField":   "uploadedBy",
			"foreignField": "_id",
			"as":           "uploader",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$uploader",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: get video: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var videos []model.Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("%w: decode video: %w", model.ErrQueryFailed, err)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: video %s", model.ErrNotFound, id.Hex())
	}
	return &videos[0], nil
}

func (r *VideoRepository) FindRelated(ctx context.Context, seed *model.Video, limit int64) ([]model.Video, error) {
	related := []bson.M{
		{"category": seed.Category},
		{"uploadedBy": seed.UploadedByID},
	}
	if len(seed.Tags) > 0 {
		related = append(related, bson.M{"tags": bson.M{"$in": seed.Tags}})
	}
	filter := bson.M{
		"_id":         bson.M{"$ne": seed.ID},
		"isPublished": true,
		"$or":         related,
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         userCollection,
			"localField":   "uploadedBy",
			"foreignField": "_id",
			"as":           "uploader",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$uploader",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: find related: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("%w: decode related: %w", model.ErrQueryFailed, err)
	}
	return videos, nil
}

func (r *VideoRepository) GetLikedBy(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.Video, error) {
	filter := bson.M{"likes": userID, "isPublished": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find liked videos: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("%w: decode liked videos: %w", model.ErrQueryFailed, err)
	}
	return videos, nil
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	if video.ID.IsZero() {
		video.ID = bson.NewObjectID()
	}
	if _, err := r.collection().InsertOne(ctx, video); err != nil {
		return fmt.Errorf("%w: insert video: %w", model.ErrQueryFailed, err)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete video: %w", model.ErrQueryFailed, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: video %s", model.ErrNotFound, id.Hex())
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id bson.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video model.Video
	err := r.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"views": 1},
			"$set": bson.M{"updatedAt": utils.GetCurrentTime()},
		},
		opts,
	).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("%w: video %s", model.ErrNotFound, id.Hex())
		}
		return 0, fmt.Errorf("%w: increment views: %w", model.ErrQueryFailed, err)
	}
	return video.Views, nil
}

func (r *VideoRepository) ToggleLike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error) {
	return r.toggleReaction(ctx, videoID, userID, "likes", "dislikes")
}

func (r *VideoRepository) ToggleDislike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error) {
	return r.toggleReaction(ctx, videoID, userID, "dislikes", "likes")
}

// toggleReaction flips the user's membership in the target array and always
// pulls them from the opposite one, so a video never holds the same user in
// both likes and dislikes.
func (r *VideoRepository) toggleReaction(ctx context.Context, videoID, userID bson.ObjectID, target, opposite string) (*model.Video, bool, error) {
	var current model.Video
	err := r.collection().FindOne(ctx, bson.M{"_id": videoID}).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, fmt.Errorf("%w: video %s", model.ErrNotFound, videoID.Hex())
		}
		return nil, false, fmt.Errorf("%w: get video: %w", model.ErrQueryFailed, err)
	}

	members := current.Likes
	if target == "dislikes" {
		members = current.Dislikes
	}
	active := false
	for _, id := range members {
		if id == userID {
			active = true
			break
		}
	}

	update := bson.M{"$pull": bson.M{opposite: userID}}
	if active {
		update["$pull"] = bson.M{target: userID, opposite: userID}
	} else {
		update["$addToSet"] = bson.M{target: userID}
	}
	update["$set"] = bson.M{"updatedAt": utils.GetCurrentTime()}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Video
	if err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": videoID}, update, opts).Decode(&updated); err != nil {
		return nil, false, fmt.Errorf("%w: toggle reaction: %w", model.ErrQueryFailed, err)
	}
	return &updated, !active, nil
}
