package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	videoCacheTTL = 10 * time.Minute

	// Duration bucket bounds in seconds. A bucket includes its lower bound
	// and excludes its upper one: 240s is medium, 1200s is medium.
	shortUpperBound  = 4 * 60
	mediumUpperBound = 20 * 60
)

// IVideoUsecase covers the catalog read pipeline (filtered listing, search,
// trending) and the collaborator mutations that feed the ranking core.
type IVideoUsecase interface {
	List(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error)
	Search(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error)
	Trending(ctx context.Context, limit int64) ([]model.Video, error)
	ByUploader(ctx context.Context, uploaderID string) ([]model.Video, error)
	Get(ctx context.Context, id string) (*model.Video, error)

	Create(ctx context.Context, userID string, req dto.VideoUploadRequest) (*model.Video, error)
	Delete(ctx context.Context, userID, videoID string) error
	AddView(ctx context.Context, id string) (int64, error)
	Like(ctx context.Context, userID, videoID string) (*dto.ReactionResponse, error)
	Dislike(ctx context.Context, userID, videoID string) (*dto.ReactionResponse, error)
}

type VideoUsecase struct {
	videoRepo repository.IVideo
	cache     repository.IVideoCache  // optional
	events    repository.IVideoEvents // optional
	now       func() time.Time
}

func NewVideoUsecase(videoRepo repository.IVideo) *VideoUsecase {
	return &VideoUsecase{videoRepo: videoRepo, now: time.Now}
}

// WithCache enables the single-video cache-aside path (fluent).
func (u *VideoUsecase) WithCache(cache repository.IVideoCache) *VideoUsecase {
	u.cache = cache
	return u
}

// WithEvents enables lifecycle event publishing (fluent).
func (u *VideoUsecase) WithEvents(events repository.IVideoEvents) *VideoUsecase {
	u.events = events
	return u
}

// WithClock overrides the time source (fluent, for tests).
func (u *VideoUsecase) WithClock(now func() time.Time) *VideoUsecase {
	u.now = now
	return u
}

// BuildVideoQuery translates recognized list/search parameters into one
// deterministic catalog query. channelSearch extends free-text matching to
// the uploader channel name (search endpoint only). Unrecognized sort values
// and `relevance` (an accepted alias with no text scoring behind it) fall
// back to recent ordering.
func BuildVideoQuery(req dto.VideoListRequest, channelSearch bool, now time.Time) repository.VideoQuery {
	query := repository.VideoQuery{
		Text:              strings.TrimSpace(req.Search),
		SearchChannelName: channelSearch,
	}

	if req.Category != "" && req.Category != "all" {
		query.Category = req.Category
	}
	query.Tags = SplitTags(req.Tags)

	switch req.UploadDate {
	case "today":
		t := now.Add(-24 * time.Hour)
		query.CreatedAfter = &t
	case "week":
		t := now.Add(-7 * 24 * time.Hour)
		query.CreatedAfter = &t
	case "month":
		t := now.Add(-30 * 24 * time.Hour)
		query.CreatedAfter = &t
	case "year":
		t := now.Add(-365 * 24 * time.Hour)
		query.CreatedAfter = &t
	}

	switch req.Duration {
	case "short":
		max := int64(shortUpperBound - 1)
		query.MaxDuration = &max
	case "medium":
		min, max := int64(shortUpperBound), int64(mediumUpperBound)
		query.MinDuration = &min
		query.MaxDuration = &max
	case "long":
		min := int64(mediumUpperBound + 1)
		query.MinDuration = &min
	}
	// Explicit second bounds win over the bucket shorthand.
	if req.MinDuration != nil {
		query.MinDuration = req.MinDuration
	}
	if req.MaxDuration != nil {
		query.MaxDuration = req.MaxDuration
	}

	switch req.SortBy {
	case "popular":
		query.Sort = repository.SortPopular
	case "rating":
		query.Sort = repository.SortRating
	case "oldest":
		query.Sort = repository.SortOldest
	default: // recent, relevance, empty, unknown
		query.Sort = repository.SortRecent
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	query.Skip = (page - 1) * limit
	query.Limit = limit
	return query
}

// SplitTags parses a comma-separated tag parameter; matching stays
// exact-string and case-sensitive as stored.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// List serves the general catalog listing; an absent search parameter means
// "no text filter", never an error.
func (u *VideoUsecase) List(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error) {
	return u.list(ctx, BuildVideoQuery(req, false, u.now()))
}

// Search is the dedicated search endpoint; it additionally matches channel
// names and rejects an empty query string.
func (u *VideoUsecase) Search(ctx context.Context, req dto.VideoListRequest) (*dto.VideoListResponse, error) {
	if strings.TrimSpace(req.Search) == "" {
		return nil, fmt.Errorf("%w: search query is required", model.ErrValidation)
	}
	return u.list(ctx, BuildVideoQuery(req, true, u.now()))
}

func (u *VideoUsecase) list(ctx context.Context, query repository.VideoQuery) (*dto.VideoListResponse, error) {
	var (
		videos []model.Video
		total  int64
	)
	// The page read and the count are independent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := u.videoRepo.Find(gctx, query)
		if err != nil {
			return err
		}
		videos = found
		return nil
	})
	g.Go(func() error {
		count, err := u.videoRepo.Count(gctx, query)
		if err != nil {
			return err
		}
		total = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	limit := query.Limit
	totalPages := (total + limit - 1) / limit
	return &dto.VideoListResponse{
		Videos:      videos,
		TotalPages:  totalPages,
		CurrentPage: query.Skip/limit + 1,
		TotalVideos: total,
	}, nil
}

// Trending exposes the last-7-days window ordered by views then likes.
func (u *VideoUsecase) Trending(ctx context.Context, limit int64) ([]model.Video, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	since := u.now().Add(-trendingWindow)
	videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
		CreatedAfter: &since,
		Sort:         repository.SortTrending,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("trending videos: %w", err)
	}
	return videos, nil
}

func (u *VideoUsecase) ByUploader(ctx context.Context, uploaderID string) ([]model.Video, error) {
	id, err := bson.ObjectIDFromHex(uploaderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
		Uploaders: []bson.ObjectID{id},
		Sort:      repository.SortRecent,
	})
	if err != nil {
		return nil, fmt.Errorf("videos by uploader: %w", err)
	}
	return videos, nil
}

// Get fetches one video, consulting the cache first when configured.
func (u *VideoUsecase) Get(ctx context.Context, id string) (*model.Video, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: video %q", model.ErrNotFound, id)
	}
	if u.cache != nil {
		if video, err := u.cache.Get(ctx, id); err == nil && video != nil {
			return video, nil
		}
	}
	video, err := u.videoRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, video, videoCacheTTL); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to cache video")
		}
	}
	return video, nil
}

func (u *VideoUsecase) Create(ctx context.Context, userID string, req dto.VideoUploadRequest) (*model.Video, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if req.VideoURL == "" || req.ThumbnailURL == "" {
		return nil, fmt.Errorf("%w: video and thumbnail are required", model.ErrValidation)
	}

	now := u.now().UTC()
	video := &model.Video{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
		Likes:        []bson.ObjectID{},
		Dislikes:     []bson.ObjectID{},
		UploadedByID: uid,
		Category:     model.NormalizeCategory(req.Category),
		Tags:         SplitTags(req.Tags),
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.videoRepo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	if u.events != nil {
		if err := u.events.PublishUploaded(ctx, video); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to publish upload event")
		}
	}
	return video, nil
}

func (u *VideoUsecase) Delete(ctx context.Context, userID, videoID string) error {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return fmt.Errorf("%w: video %q", model.ErrNotFound, videoID)
	}
	video, err := u.videoRepo.GetByID(ctx, vid)
	if err != nil {
		return fmt.Errorf("get video: %w", err)
	}
	if video.UploadedByID.Hex() != userID {
		return fmt.Errorf("%w: not the uploader", model.ErrForbidden)
	}
	if err := u.videoRepo.Delete(ctx, vid); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	u.invalidate(ctx, videoID)
	if u.events != nil {
		if err := u.events.PublishDeleted(ctx, videoID); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to publish delete event")
		}
	}
	return nil
}

func (u *VideoUsecase) AddView(ctx context.Context, id string) (int64, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("%w: video %q", model.ErrNotFound, id)
	}
	views, err := u.videoRepo.IncrementViews(ctx, oid)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	u.invalidate(ctx, id)
	return views, nil
}

func (u *VideoUsecase) Like(ctx context.Context, userID, videoID string) (*dto.ReactionResponse, error) {
	video, liked, err := u.toggleReaction(ctx, userID, videoID, u.videoRepo.ToggleLike)
	if err != nil {
		return nil, err
	}
	message := "Video unliked"
	if liked {
		message = "Video liked"
	}
	return &dto.ReactionResponse{Message: message, Likes: video.LikeCount(), Dislikes: video.DislikeCount()}, nil
}

func (u *VideoUsecase) Dislike(ctx context.Context, userID, videoID string) (*dto.ReactionResponse, error) {
	video, disliked, err := u.toggleReaction(ctx, userID, videoID, u.videoRepo.ToggleDislike)
	if err != nil {
		return nil, err
	}
	message := "Dislike removed"
	if disliked {
		message = "Video disliked"
	}
	return &dto.ReactionResponse{Message: message, Likes: video.LikeCount(), Dislikes: video.DislikeCount()}, nil
}

func (u *VideoUsecase) toggleReaction(
	ctx context.Context,
	userID, videoID string,
	toggle func(context.Context, bson.ObjectID, bson.ObjectID) (*model.Video, bool, error),
) (*model.Video, bool, error) {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: video %q", model.ErrNotFound, videoID)
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	video, state, err := toggle(ctx, vid, uid)
	if err != nil {
		return nil, false, fmt.Errorf("toggle reaction: %w", err)
	}
	u.invalidate(ctx, videoID)
	return video, state, nil
}

func (u *VideoUsecase) invalidate(ctx context.Context, id string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, id); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to invalidate cached video")
	}
}
