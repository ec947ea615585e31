package model

import "time"

// WatchSession accumulates seconds watched per user per calendar day.
type WatchSession struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"userId"`
	Day            time.Time `json:"day"`
	SecondsWatched int64     `json:"secondsWatched"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// WatchSummary is one row of the per-day usage report.
type WatchSummary struct {
	Day            string `json:"day"`
	SecondsWatched int64  `json:"secondsWatched"`
}
