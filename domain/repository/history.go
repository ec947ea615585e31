package repository

import (
	"context"

	"viewtube/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type IHistory interface {
	// Upsert records a watch; a repeated (user, video) pair updates the
	// timestamp and duration instead of inserting a second entry.
	Upsert(ctx context.Context, userID, videoID bson.ObjectID, watchDuration int64) (*model.HistoryEntry, error)
	// Recent returns the user's latest entries, newest first, with the
	// watched video (and its uploader) attached. Entries whose video has
	// been deleted are dropped.
	Recent(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.HistoryEntry, error)
	Clear(ctx context.Context, userID bson.ObjectID) error
	DeleteEntry(ctx context.Context, userID, entryID bson.ObjectID) error
}
