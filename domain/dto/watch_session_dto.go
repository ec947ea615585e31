package dto

import "viewtube/domain/model"

type WatchSessionRequest struct {
	Day            string `json:"day"` // YYYY-MM-DD, defaults to today
	SecondsWatched int64  `json:"secondsWatched" binding:"required"`
}

type WatchSummaryResponse struct {
	Days  []model.WatchSummary `json:"days"`
	Total int64                `json:"total"`
}
