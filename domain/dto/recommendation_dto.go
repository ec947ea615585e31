package dto

import "viewtube/domain/model"

// FeedRequest asks for a personalized feed. Exclude removes one extra video
// id from consideration (typically the one currently playing).
type FeedRequest struct {
	UserID  string
	Limit   int64
	Exclude string
}

type FeedResponse struct {
	Recommendations []model.Video `json:"recommendations"`
	Count           int           `json:"count"`
}

type SimilarResponse struct {
	Similar []model.Video `json:"similar"`
	Count   int           `json:"count"`
}

// ChannelRecommendation is a channel the user has not subscribed to yet.
type ChannelRecommendation struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ChannelName     string `json:"channelName"`
	ProfilePicture  string `json:"profilePicture"`
	SubscriberCount int    `json:"subscriberCount"`
}

type ChannelRecommendationResponse struct {
	Channels []ChannelRecommendation `json:"channels"`
	Count    int                     `json:"count"`
}
