package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFeedLimit    = 20
	defaultSimilarLimit = 10
	defaultChannelLimit = 10

	// Interaction window scanned for affinity signals on every call.
	historyWindow = 50
	likedWindow   = 20

	trendingWindow    = 7 * 24 * time.Hour
	recentBoostWindow = 30 * 24 * time.Hour
)

// OrderingStrategy rearranges an assembled feed before truncation. The
// default shuffle hides the stage boundaries from the caller; tests use
// IdentityOrdering to observe stage composition.
type OrderingStrategy func(videos []model.Video)

func ShuffleOrdering(videos []model.Video) {
	rand.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
}

func IdentityOrdering([]model.Video) {}

// IRecommendationUsecase is the read-time ranking engine: personalized feed
// aggregation, similar-video scoring and channel suggestions.
type IRecommendationUsecase interface {
	GetFeed(ctx context.Context, req dto.FeedRequest) (*dto.FeedResponse, error)
	GetPublicFeed(ctx context.Context, limit int64, category string) (*dto.FeedResponse, error)
	GetSimilar(ctx context.Context, videoID string, limit int64) (*dto.SimilarResponse, error)
	GetChannelSuggestions(ctx context.Context, userID string, limit int64) (*dto.ChannelRecommendationResponse, error)
}

type RecommendationUsecase struct {
	videoRepo   repository.IVideo
	userRepo    repository.IUser
	historyRepo repository.IHistory
	order       OrderingStrategy
	now         func() time.Time
}

func NewRecommendationUsecase(videoRepo repository.IVideo, userRepo repository.IUser, historyRepo repository.IHistory) *RecommendationUsecase {
	return &RecommendationUsecase{
		videoRepo:   videoRepo,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		order:       ShuffleOrdering,
		now:         time.Now,
	}
}

// WithOrdering overrides the final feed ordering (fluent).
func (u *RecommendationUsecase) WithOrdering(order OrderingStrategy) *RecommendationUsecase {
	u.order = order
	return u
}

// WithClock overrides the time source (fluent, for tests).
func (u *RecommendationUsecase) WithClock(now func() time.Time) *RecommendationUsecase {
	u.now = now
	return u
}

// affinitySignals are recomputed from the interaction window on every call;
// nothing here is persisted.
type affinitySignals struct {
	categories []string
	watched    []bson.ObjectID
	channels   map[bson.ObjectID]struct{}
}

func extractSignals(history []model.HistoryEntry, liked []model.Video) affinitySignals {
	signals := affinitySignals{
		channels: make(map[bson.ObjectID]struct{}),
	}
	seenCategory := make(map[string]struct{})
	seenVideo := make(map[bson.ObjectID]struct{})
	add := func(v *model.Video) {
		if v == nil {
			return
		}
		if _, ok := seenCategory[v.Category]; !ok && v.Category != "" {
			seenCategory[v.Category] = struct{}{}
			signals.categories = append(signals.categories, v.Category)
		}
		if _, ok := seenVideo[v.ID]; !ok {
			seenVideo[v.ID] = struct{}{}
			signals.watched = append(signals.watched, v.ID)
		}
		if !v.UploadedByID.IsZero() {
			signals.channels[v.UploadedByID] = struct{}{}
		}
	}
	for i := range history {
		add(history[i].Video)
	}
	for i := range liked {
		add(&liked[i])
	}
	return signals
}

// exclusionSet keeps insertion order so repeated stage queries stay
// deterministic for a fixed store state.
type exclusionSet struct {
	ids  []bson.ObjectID
	seen map[bson.ObjectID]struct{}
}

func newExclusionSet() *exclusionSet {
	return &exclusionSet{seen: make(map[bson.ObjectID]struct{})}
}

func (e *exclusionSet) add(id bson.ObjectID) {
	if id.IsZero() {
		return
	}
	if _, ok := e.seen[id]; ok {
		return
	}
	e.seen[id] = struct{}{}
	e.ids = append(e.ids, id)
}

func (e *exclusionSet) list() []bson.ObjectID { return e.ids }

// GetFeed assembles a personalized feed with a quota-based waterfall:
// subscriptions (40%), category affinity (30%), trending (20%) and a
// popularity fill. Each stage excludes everything chosen before it; quotas
// that cannot be filled do not roll over. An unknown user degrades to empty
// signals rather than failing.
func (u *RecommendationUsecase) GetFeed(ctx context.Context, req dto.FeedRequest) (*dto.FeedResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		userID = bson.NilObjectID
	}

	var (
		history    []model.HistoryEntry
		liked      []model.Video
		subscribed []bson.ObjectID
	)
	if !userID.IsZero() {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			entries, err := u.historyRepo.Recent(gctx, userID, historyWindow)
			if err != nil {
				return err
			}
			history = entries
			return nil
		})
		g.Go(func() error {
			videos, err := u.videoRepo.GetLikedBy(gctx, userID, likedWindow)
			if err != nil {
				return err
			}
			liked = videos
			return nil
		})
		g.Go(func() error {
			user, err := u.userRepo.GetByID(gctx, userID)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return nil
				}
				return err
			}
			subscribed = user.SubscribedChannels
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("collect signals: %w", err)
		}
	}

	signals := extractSignals(history, liked)

	exclude := newExclusionSet()
	if req.Exclude != "" {
		if id, err := bson.ObjectIDFromHex(req.Exclude); err == nil {
			exclude.add(id)
		}
	}
	for _, id := range signals.watched {
		exclude.add(id)
	}

	feed := make([]model.Video, 0, limit)
	take := func(videos []model.Video) {
		for _, v := range videos {
			feed = append(feed, v)
			exclude.add(v.ID)
		}
	}

	// Stage A: subscriptions, newest first.
	if quota := limit * 4 / 10; quota > 0 && len(subscribed) > 0 {
		videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
			Uploaders:  subscribed,
			ExcludeIDs: exclude.list(),
			Sort:       repository.SortRecent,
			Limit:      quota,
		})
		if err != nil {
			return nil, fmt.Errorf("subscription stage: %w", err)
		}
		take(videos)
	}

	// Stage B: watched/liked categories, most viewed first.
	if quota := limit * 3 / 10; quota > 0 && len(signals.categories) > 0 {
		videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
			Categories: signals.categories,
			ExcludeIDs: exclude.list(),
			Sort:       repository.SortPopularRecent,
			Limit:      quota,
		})
		if err != nil {
			return nil, fmt.Errorf("category stage: %w", err)
		}
		take(videos)
	}

	// Stage C: trending over the last 7 days.
	if quota := limit * 2 / 10; quota > 0 {
		since := u.now().Add(-trendingWindow)
		videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
			CreatedAfter: &since,
			ExcludeIDs:   exclude.list(),
			Sort:         repository.SortTrending,
			Limit:        quota,
		})
		if err != nil {
			return nil, fmt.Errorf("trending stage: %w", err)
		}
		take(videos)
	}

	// Stage D: fill the rest with popular videos.
	if remaining := limit - int64(len(feed)); remaining > 0 {
		videos, err := u.videoRepo.Find(ctx, repository.VideoQuery{
			ExcludeIDs: exclude.list(),
			Sort:       repository.SortPopular,
			Limit:      remaining,
		})
		if err != nil {
			return nil, fmt.Errorf("popularity stage: %w", err)
		}
		take(videos)
	}

	u.order(feed)
	if int64(len(feed)) > limit {
		feed = feed[:limit]
	}
	return &dto.FeedResponse{Recommendations: feed, Count: len(feed)}, nil
}

// GetPublicFeed serves callers without an identity: popular recent videos,
// optionally restricted to one category.
func (u *RecommendationUsecase) GetPublicFeed(ctx context.Context, limit int64, category string) (*dto.FeedResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	query := repository.VideoQuery{
		Sort:  repository.SortPopularRecent,
		Limit: limit,
	}
	if category != "" && category != "all" {
		query.Category = category
	}
	videos, err := u.videoRepo.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("public feed: %w", err)
	}
	return &dto.FeedResponse{Recommendations: videos, Count: len(videos)}, nil
}

// GetSimilar scores a candidate pool against the seed video and returns the
// top matches. The seed must exist; a missing seed is a not-found error.
func (u *RecommendationUsecase) GetSimilar(ctx context.Context, videoID string, limit int64) (*dto.SimilarResponse, error) {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	id, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: video %q", model.ErrNotFound, videoID)
	}
	seed, err := u.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("seed video: %w", err)
	}

	// Fetch 2x the requested count for post-scoring headroom.
	pool, err := u.videoRepo.FindRelated(ctx, seed, limit*2)
	if err != nil {
		return nil, fmt.Errorf("candidate pool: %w", err)
	}

	now := u.now()
	scores := make([]int, len(pool))
	for i := range pool {
		scores[i] = similarityScore(seed, &pool[i], now)
	}
	// Stable sort: ties keep the pool's fetch order.
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	top := make([]model.Video, 0, limit)
	for _, i := range order {
		if int64(len(top)) == limit {
			break
		}
		top = append(top, pool[i])
	}
	return &dto.SimilarResponse{Similar: top, Count: len(top)}, nil
}

// similarityScore is the additive heuristic: uploader match dominates,
// category is a strong broad signal, tags are fine-grained, recency and
// popularity are secondary boosts. The views term has no ceiling.
func similarityScore(seed, candidate *model.Video, now time.Time) int {
	score := 0
	if candidate.Category == seed.Category {
		score += 3
	}
	if candidate.UploadedByID == seed.UploadedByID {
		score += 5
	}
	for _, tag := range candidate.Tags {
		if seed.HasTag(tag) {
			score++
		}
	}
	if now.Sub(candidate.CreatedAt) <= recentBoostWindow {
		score += 2
	}
	score += int(candidate.Views / 1000)
	return score
}

// GetChannelSuggestions returns the most-subscribed channels the user has
// not subscribed to yet.
func (u *RecommendationUsecase) GetChannelSuggestions(ctx context.Context, userID string, limit int64) (*dto.ChannelRecommendationResponse, error) {
	if limit <= 0 {
		limit = defaultChannelLimit
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	exclude := []bson.ObjectID{uid}
	user, err := u.userRepo.GetByID(ctx, uid)
	if err == nil {
		exclude = append(exclude, user.SubscribedChannels...)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("subscriptions: %w", err)
	}

	channels, err := u.userRepo.MostSubscribed(ctx, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("channel suggestions: %w", err)
	}
	out := make([]dto.ChannelRecommendation, 0, len(channels))
	for i := range channels {
		c := &channels[i]
		out = append(out, dto.ChannelRecommendation{
			ID:              c.ID.Hex(),
			Username:        c.Username,
			ChannelName:     c.ChannelName,
			ProfilePicture:  c.ProfilePicture,
			SubscriberCount: c.SubscriberCount(),
		})
	}
	return &dto.ChannelRecommendationResponse{Channels: out, Count: len(out)}, nil
}
