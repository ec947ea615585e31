package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// HistoryEntry is unique per (user, video); rewatching updates WatchedAt and
// WatchDuration in place.
type HistoryEntry struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        bson.ObjectID `bson:"userId" json:"userId"`
	VideoID       bson.ObjectID `bson:"videoId" json:"videoId"`
	WatchedAt     time.Time     `bson:"watchedAt" json:"watchedAt"`
	WatchDuration int64         `bson:"watchDuration" json:"watchDuration"` // seconds watched
	Video         *Video        `bson:"video,omitempty" json:"video,omitempty"`
}
