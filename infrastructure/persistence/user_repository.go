package persistence

import (
	"context"
	"errors"
	"fmt"

	"viewtube/domain/model"
	"viewtube/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) collection() *mongo.Collection {
	return r.db.Collection(userCollection)
}

func (r *UserRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByUserName(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.collection().FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user", model.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get user: %w", model.ErrQueryFailed, err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if _, err := r.collection().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("%w: insert user: %w", model.ErrQueryFailed, err)
	}
	return nil
}

// ToggleSubscription updates both documents: the channel's subscribers list
// and the user's subscribedChannels list stay mirror images.
func (r *UserRepository) ToggleSubscription(ctx context.Context, userID, channelID bson.ObjectID) (bool, int, error) {
	channel, err := r.getOne(ctx, bson.M{"_id": channelID})
	if err != nil {
		return false, 0, err
	}

	subscribed := false
	for _, id := range channel.Subscribers {
		if id == userID {
			subscribed = true
			break
		}
	}

	now := utils.GetCurrentTime()
	var channelUpdate, userUpdate bson.M
	if subscribed {
		channelUpdate = bson.M{"$pull": bson.M{"subscribers": userID}}
		userUpdate = bson.M{"$pull": bson.M{"subscribedChannels": channelID}}
	} else {
		channelUpdate = bson.M{"$addToSet": bson.M{"subscribers": userID}}
		userUpdate = bson.M{"$addToSet": bson.M{"subscribedChannels": channelID}}
	}
	channelUpdate["$set"] = bson.M{"updatedAt": now}
	userUpdate["$set"] = bson.M{"updatedAt": now}

	if _, err := r.collection().UpdateOne(ctx, bson.M{"_id": channelID}, channelUpdate); err != nil {
		return false, 0, fmt.Errorf("%w: update channel subscribers: %w", model.ErrQueryFailed, err)
	}
	if _, err := r.collection().UpdateOne(ctx, bson.M{"_id": userID}, userUpdate); err != nil {
		return false, 0, fmt.Errorf("%w: update subscribed channels: %w", model.ErrQueryFailed, err)
	}

	count := len(channel.Subscribers)
	if subscribed {
		count--
	} else {
		count++
	}
	return !subscribed, count, nil
}

func (r *UserRepository) MostSubscribed(ctx context.Context, excludeIDs []bson.ObjectID, limit int64) ([]model.User, error) {
	match := bson.M{}
	if len(excludeIDs) > 0 {
		match["_id"] = bson.M{"$nin": excludeIDs}
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"subscriberCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$subscribers", bson.A{}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "subscriberCount", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: most subscribed: %w", model.ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: decode users: %w", model.ErrQueryFailed, err)
	}
	return users, nil
}
