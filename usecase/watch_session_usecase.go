package usecase

import (
	"context"
	"fmt"
	"time"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/infrastructure/utils"
)

const defaultSummaryWindow = 30 * 24 * time.Hour

type IWatchSessionUsecase interface {
	Record(ctx context.Context, userID string, req dto.WatchSessionRequest) error
	Summary(ctx context.Context, userID string, days int) (*dto.WatchSummaryResponse, error)
}

// WatchSessionUsecase tracks per-day viewing time in the relational store,
// separate from the per-video history collection.
type WatchSessionUsecase struct {
	sessionRepo repository.IWatchSession
	now         func() time.Time
}

func NewWatchSessionUsecase(sessionRepo repository.IWatchSession) *WatchSessionUsecase {
	return &WatchSessionUsecase{sessionRepo: sessionRepo, now: utils.GetCurrentTime}
}

func (u *WatchSessionUsecase) Record(ctx context.Context, userID string, req dto.WatchSessionRequest) error {
	if req.SecondsWatched <= 0 {
		return fmt.Errorf("%w: secondsWatched must be positive", model.ErrValidation)
	}
	day := u.now().Truncate(24 * time.Hour)
	if req.Day != "" {
		parsed, err := time.Parse("2006-01-02", req.Day)
		if err != nil {
			return fmt.Errorf("%w: day must be YYYY-MM-DD", model.ErrValidation)
		}
		day = parsed
	}
	if err := u.sessionRepo.Record(ctx, userID, day, req.SecondsWatched); err != nil {
		return fmt.Errorf("record watch session: %w", err)
	}
	return nil
}

func (u *WatchSessionUsecase) Summary(ctx context.Context, userID string, days int) (*dto.WatchSummaryResponse, error) {
	window := defaultSummaryWindow
	if days > 0 {
		window = time.Duration(days) * 24 * time.Hour
	}
	rows, err := u.sessionRepo.Summary(ctx, userID, u.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("watch summary: %w", err)
	}
	var total int64
	for _, row := range rows {
		total += row.SecondsWatched
	}
	return &dto.WatchSummaryResponse{Days: rows, Total: total}, nil
}
