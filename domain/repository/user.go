package repository

import (
	"context"

	"viewtube/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type IUser interface {
	GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	GetByUserName(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// ToggleSubscription subscribes the user to the channel or undoes it,
	// updating both sides of the relation. Returns the new state and the
	// channel's subscriber count.
	ToggleSubscription(ctx context.Context, userID, channelID bson.ObjectID) (bool, int, error)
	// MostSubscribed returns users ordered by subscriber count desc,
	// excluding the given ids.
	MostSubscribed(ctx context.Context, excludeIDs []bson.ObjectID, limit int64) ([]model.User, error)
}
