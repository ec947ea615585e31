package dto

import "viewtube/domain/model"

// VideoListRequest carries the recognized catalog filter parameters. Every
// field is optional; zero values mean "no constraint". Tags is the raw
// comma-separated query value.
type VideoListRequest struct {
	Search      string
	Category    string
	Tags        string
	UploadDate  string // today | week | month | year | all
	Duration    string // short | medium | long
	MinDuration *int64 // seconds, inclusive
	MaxDuration *int64 // seconds, inclusive
	SortBy      string // recent (default) | popular | rating | oldest | relevance
	Page        int64
	Limit       int64
}

// VideoListResponse mirrors the listing payload of the public API.
type VideoListResponse struct {
	Videos      []model.Video `json:"videos"`
	TotalPages  int64         `json:"totalPages"`
	CurrentPage int64         `json:"currentPage"`
	TotalVideos int64         `json:"totalVideos"`
}

// VideoUploadRequest creates a catalog entry; the blob URLs come from the
// external storage collaborator.
type VideoUploadRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl" binding:"required"`
	ThumbnailURL string `json:"thumbnailUrl" binding:"required"`
	Duration     int64  `json:"duration"`
	Category     string `json:"category"`
	Tags         string `json:"tags"` // comma-separated
}

// ReactionResponse reports the like/dislike counters after a toggle.
type ReactionResponse struct {
	Message  string `json:"message"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}
