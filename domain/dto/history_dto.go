package dto

import "viewtube/domain/model"

type HistoryRequest struct {
	VideoID       string `json:"videoId" binding:"required"`
	WatchDuration int64  `json:"watchDuration"`
}

type HistoryResponse struct {
	History []model.HistoryEntry `json:"history"`
}
