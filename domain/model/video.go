package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CategoryGeneral is the fallback label for uploads without a recognized category.
const CategoryGeneral = "General"

// Categories is the closed set of catalog category labels.
var Categories = []string{
	CategoryGeneral,
	"Education",
	"Entertainment",
	"Gaming",
	"Music",
	"News",
	"Sports",
	"Technology",
	"Travel",
	"Vlog",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeCategory maps anything outside the closed category set to General.
func NormalizeCategory(category string) string {
	if IsValidCategory(category) {
		return category
	}
	return CategoryGeneral
}

// UploaderSummary is the channel info attached to videos via $lookup.
type UploaderSummary struct {
	ID             bson.ObjectID `bson:"_id" json:"id"`
	Username       string        `bson:"username" json:"username"`
	ChannelName    string        `bson:"channelName" json:"channelName"`
	ProfilePicture string        `bson:"profilePicture" json:"profilePicture"`
}

// Video is a catalog document. Likes and dislikes hold user ids and never
// share a member; the toggle logic in the repository maintains that.
type Video struct {
	ID           bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Title        string           `bson:"title" json:"title"`
	Description  string           `bson:"description" json:"description"`
	VideoURL     string           `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL string           `bson:"thumbnailUrl" json:"thumbnailUrl"`
	Duration     int64            `bson:"duration" json:"duration"` // seconds
	Views        int64            `bson:"views" json:"views"`
	Likes        []bson.ObjectID  `bson:"likes" json:"likes"`
	Dislikes     []bson.ObjectID  `bson:"dislikes" json:"dislikes"`
	UploadedByID bson.ObjectID    `bson:"uploadedBy" json:"-"`
	UploadedBy   *UploaderSummary `bson:"uploader,omitempty" json:"uploadedBy,omitempty"`
	Category     string           `bson:"category" json:"category"`
	Tags         []string         `bson:"tags" json:"tags"`
	IsPublished  bool             `bson:"isPublished" json:"isPublished"`
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`
}

func (v *Video) LikeCount() int    { return len(v.Likes) }
func (v *Video) DislikeCount() int { return len(v.Dislikes) }

// HasTag reports whether the video carries the exact tag as stored.
func (v *Video) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
