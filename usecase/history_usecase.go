package usecase

import (
	"context"
	"fmt"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const defaultHistoryLimit = 50

type IHistoryUsecase interface {
	Record(ctx context.Context, userID string, req dto.HistoryRequest) (*model.HistoryEntry, error)
	List(ctx context.Context, userID string, limit int64) (*dto.HistoryResponse, error)
	Clear(ctx context.Context, userID string) error
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

type HistoryUsecase struct {
	historyRepo repository.IHistory
	videoRepo   repository.IVideo
}

func NewHistoryUsecase(historyRepo repository.IHistory, videoRepo repository.IVideo) *HistoryUsecase {
	return &HistoryUsecase{historyRepo: historyRepo, videoRepo: videoRepo}
}

// Record upserts the (user, video) watch entry; rewatching refreshes the
// timestamp rather than adding a duplicate row.
func (u *HistoryUsecase) Record(ctx context.Context, userID string, req dto.HistoryRequest) (*model.HistoryEntry, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	vid, err := bson.ObjectIDFromHex(req.VideoID)
	if err != nil {
		return nil, fmt.Errorf("%w: video %q", model.ErrNotFound, req.VideoID)
	}
	// Only existing videos enter the history.
	if _, err := u.videoRepo.GetByID(ctx, vid); err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	entry, err := u.historyRepo.Upsert(ctx, uid, vid, req.WatchDuration)
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	return entry, nil
}

func (u *HistoryUsecase) List(ctx context.Context, userID string, limit int64) (*dto.HistoryResponse, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultHistoryLimit
	}
	entries, err := u.historyRepo.Recent(ctx, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return &dto.HistoryResponse{History: entries}, nil
}

func (u *HistoryUsecase) Clear(ctx context.Context, userID string) error {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	if err := u.historyRepo.Clear(ctx, uid); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (u *HistoryUsecase) DeleteEntry(ctx context.Context, userID, entryID string) error {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	eid, err := bson.ObjectIDFromHex(entryID)
	if err != nil {
		return fmt.Errorf("%w: history entry %q", model.ErrNotFound, entryID)
	}
	if err := u.historyRepo.DeleteEntry(ctx, uid, eid); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}
