package repository

import (
	"context"
	"time"

	"viewtube/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// VideoSort names the catalog sort orders the store understands.
type VideoSort string

const (
	SortRecent        VideoSort = "recent"         // createdAt desc
	SortOldest        VideoSort = "oldest"         // createdAt asc
	SortPopular       VideoSort = "popular"        // views desc
	SortPopularRecent VideoSort = "popular_recent" // views desc, createdAt desc
	SortTrending      VideoSort = "trending"       // views desc, likes count desc
	SortRating        VideoSort = "rating"         // likes count desc
)

// VideoQuery is the resolved, store-facing form of a catalog query. Every
// query is implicitly restricted to published videos.
type VideoQuery struct {
	Text              string // case-insensitive substring over title/description/tags
	SearchChannelName bool   // extend Text matching to the uploader channel name
	Category          string
	Categories        []string
	Tags              []string // match if any tag intersects
	CreatedAfter      *time.Time
	MinDuration       *int64 // seconds, inclusive
	MaxDuration       *int64 // seconds, inclusive
	Uploaders         []bson.ObjectID
	ExcludeIDs        []bson.ObjectID
	Sort              VideoSort
	Skip              int64
	Limit             int64
}

// IVideo is the catalog store consumed by the ranking core and the video
// endpoints. Reads attach the uploader summary.
type IVideo interface {
	Find(ctx context.Context, query VideoQuery) ([]model.Video, error)
	Count(ctx context.Context, query VideoQuery) (int64, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Video, error)
	// FindRelated returns published videos sharing category, uploader or at
	// least one tag with the seed, seed excluded, views desc then createdAt
	// desc.
	FindRelated(ctx context.Context, seed *model.Video, limit int64) ([]model.Video, error)
	// GetLikedBy returns published videos whose like set contains the user.
	GetLikedBy(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.Video, error)

	Create(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, id bson.ObjectID) error
	IncrementViews(ctx context.Context, id bson.ObjectID) (int64, error)
	// ToggleLike flips the user's like and clears any dislike; ToggleDislike
	// is the mirror. Both return the resulting counters.
	ToggleLike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error)
	ToggleDislike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error)
}
