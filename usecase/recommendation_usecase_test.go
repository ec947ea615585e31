package usecase_test

import (
	"context"
	"testing"
	"time"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Mock implementations

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Find(ctx context.Context, query repository.VideoQuery) ([]model.Video, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) Count(ctx context.Context, query repository.VideoQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideoRepository) FindRelated(ctx context.Context, seed *model.Video, limit int64) ([]model.Video, error) {
	args := m.Called(ctx, seed, limit)
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) GetLikedBy(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.Video, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVideoRepository) IncrementViews(ctx context.Context, id bson.ObjectID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoRepository) ToggleLike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error) {
	args := m.Called(ctx, videoID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Video), args.Bool(1), args.Error(2)
}

func (m *MockVideoRepository) ToggleDislike(ctx context.Context, videoID, userID bson.ObjectID) (*model.Video, bool, error) {
	args := m.Called(ctx, videoID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Video), args.Bool(1), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleSubscription(ctx context.Context, userID, channelID bson.ObjectID) (bool, int, error) {
	args := m.Called(ctx, userID, channelID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) MostSubscribed(ctx context.Context, excludeIDs []bson.ObjectID, limit int64) ([]model.User, error) {
	args := m.Called(ctx, excludeIDs, limit)
	return args.Get(0).([]model.User), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Upsert(ctx context.Context, userID, videoID bson.ObjectID, watchDuration int64) (*model.HistoryEntry, error) {
	args := m.Called(ctx, userID, videoID, watchDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) Recent(ctx context.Context, userID bson.ObjectID, limit int64) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) Clear(ctx context.Context, userID bson.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockHistoryRepository) DeleteEntry(ctx context.Context, userID, entryID bson.ObjectID) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}

func makeVideo(category string, uploader bson.ObjectID, views int64, createdAt time.Time) model.Video {
	return model.Video{
		ID:           bson.NewObjectID(),
		Title:        "video",
		Views:        views,
		UploadedByID: uploader,
		Category:     category,
		IsPublished:  true,
		CreatedAt:    createdAt,
	}
}

func TestGetFeed_QuotaWaterfall(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	channel := bson.NewObjectID()
	userID := bson.NewObjectID()

	watched := makeVideo("Gaming", channel, 900, now.Add(-48*time.Hour))

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	mockHistoryRepo.On("Recent", mock.Anything, userID, int64(50)).
		Return([]model.HistoryEntry{{UserID: userID, VideoID: watched.ID, Video: &watched}}, nil)
	mockVideoRepo.On("GetLikedBy", mock.Anything, userID, int64(20)).
		Return([]model.Video{}, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, SubscribedChannels: []bson.ObjectID{channel}}, nil)

	subs := []model.Video{
		makeVideo("Gaming", channel, 100, now.Add(-time.Hour)),
		makeVideo("Gaming", channel, 90, now.Add(-2*time.Hour)),
	}
	cats := []model.Video{
		makeVideo("Gaming", bson.NewObjectID(), 5000, now.Add(-72*time.Hour)),
	}
	trending := []model.Video{
		makeVideo("Music", bson.NewObjectID(), 9000, now.Add(-24*time.Hour)),
	}
	popular := []model.Video{
		makeVideo("News", bson.NewObjectID(), 20000, now.Add(-400*time.Hour)),
	}

	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return len(q.Uploaders) == 1 && q.Sort == repository.SortRecent && q.Limit == 4
	})).Return(subs, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return len(q.Categories) == 1 && q.Sort == repository.SortPopularRecent && q.Limit == 3
	})).Return(cats, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.CreatedAfter != nil && q.Sort == repository.SortTrending && q.Limit == 2
	})).Return(trending, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopular && q.Limit == 6
	})).Return(popular, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	res, err := uc.GetFeed(context.Background(), dto.FeedRequest{UserID: userID.Hex(), Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Count)
	assert.Len(t, res.Recommendations, 5)

	seen := make(map[bson.ObjectID]bool)
	for _, v := range res.Recommendations {
		assert.False(t, seen[v.ID], "duplicate video in feed")
		seen[v.ID] = true
		assert.NotEqual(t, watched.ID, v.ID, "watched video must not reappear")
	}
	// Identity ordering preserves stage order: subscriptions before the
	// popularity fill.
	assert.Equal(t, subs[0].ID, res.Recommendations[0].ID)
	assert.Equal(t, popular[0].ID, res.Recommendations[4].ID)
	mockVideoRepo.AssertExpectations(t)
}

func TestGetFeed_StageQuotasExcludePriorPicks(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	channel := bson.NewObjectID()
	userID := bson.NewObjectID()

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	mockHistoryRepo.On("Recent", mock.Anything, userID, int64(50)).Return([]model.HistoryEntry{}, nil)
	mockVideoRepo.On("GetLikedBy", mock.Anything, userID, int64(20)).Return([]model.Video{}, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, SubscribedChannels: []bson.ObjectID{channel}}, nil)

	subs := []model.Video{makeVideo("Gaming", channel, 100, now.Add(-time.Hour))}
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return len(q.Uploaders) == 1
	})).Return(subs, nil)

	// Later stages must carry the stage-A pick in their exclusion list.
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		if q.Sort != repository.SortTrending && q.Sort != repository.SortPopular {
			return false
		}
		for _, id := range q.ExcludeIDs {
			if id == subs[0].ID {
				return true
			}
		}
		return false
	})).Return([]model.Video{}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	res, err := uc.GetFeed(context.Background(), dto.FeedRequest{UserID: userID.Hex(), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	mockVideoRepo.AssertExpectations(t)
}

func TestGetFeed_ExplicitExcludeReachesEveryStage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	channel := bson.NewObjectID()
	userID := bson.NewObjectID()
	excluded := bson.NewObjectID()

	watched := makeVideo("Gaming", channel, 900, now.Add(-48*time.Hour))

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	mockHistoryRepo.On("Recent", mock.Anything, userID, int64(50)).
		Return([]model.HistoryEntry{{UserID: userID, VideoID: watched.ID, Video: &watched}}, nil)
	mockVideoRepo.On("GetLikedBy", mock.Anything, userID, int64(20)).
		Return([]model.Video{}, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, SubscribedChannels: []bson.ObjectID{channel}}, nil)

	carriesExcluded := func(q repository.VideoQuery) bool {
		for _, id := range q.ExcludeIDs {
			if id == excluded {
				return true
			}
		}
		return false
	}
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortRecent && carriesExcluded(q)
	})).Return([]model.Video{}, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopularRecent && carriesExcluded(q)
	})).Return([]model.Video{}, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortTrending && carriesExcluded(q)
	})).Return([]model.Video{}, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopular && carriesExcluded(q)
	})).Return([]model.Video{}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	res, err := uc.GetFeed(context.Background(), dto.FeedRequest{
		UserID:  userID.Hex(),
		Exclude: excluded.Hex(),
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	mockVideoRepo.AssertExpectations(t)
}

func TestGetFeed_NonexistentUserDegradesToAnonymous(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	userID := bson.NewObjectID()

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	// Well-formed id that matches no stored user: signal fetches run but
	// come back empty, and the missing user record is not an error.
	mockHistoryRepo.On("Recent", mock.Anything, userID, int64(50)).
		Return([]model.HistoryEntry{}, nil)
	mockVideoRepo.On("GetLikedBy", mock.Anything, userID, int64(20)).
		Return([]model.Video{}, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).Return(nil, model.ErrNotFound)

	trending := []model.Video{makeVideo("Music", bson.NewObjectID(), 9000, now.Add(-24*time.Hour))}
	popular := []model.Video{makeVideo("News", bson.NewObjectID(), 20000, now.Add(-400*time.Hour))}
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortTrending
	})).Return(trending, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopular
	})).Return(popular, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	res, err := uc.GetFeed(context.Background(), dto.FeedRequest{UserID: userID.Hex(), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	// No subscriptions means the subscription stage never queries.
	mockVideoRepo.AssertNotCalled(t, "Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortRecent
	}))
	mockUserRepo.AssertExpectations(t)
}

func TestGetFeed_UnknownUserDegradesToAnonymous(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	trending := []model.Video{makeVideo("Music", bson.NewObjectID(), 9000, now.Add(-24*time.Hour))}
	popular := []model.Video{makeVideo("News", bson.NewObjectID(), 20000, now.Add(-400*time.Hour))}

	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortTrending
	})).Return(trending, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopular
	})).Return(popular, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	// A malformed user id is treated as anonymous, never an error.
	res, err := uc.GetFeed(context.Background(), dto.FeedRequest{UserID: "not-a-hex-id", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	mockHistoryRepo.AssertNotCalled(t, "Recent", mock.Anything, mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetFeed_DeterministicWithIdentityOrdering(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mockVideoRepo := new(MockVideoRepository)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockHistoryRepository)

	videos := []model.Video{
		makeVideo("Music", bson.NewObjectID(), 9000, now.Add(-24*time.Hour)),
		makeVideo("News", bson.NewObjectID(), 8000, now.Add(-30*time.Hour)),
	}
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortTrending
	})).Return(videos, nil)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Sort == repository.SortPopular
	})).Return([]model.Video{}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, mockUserRepo, mockHistoryRepo).
		WithOrdering(usecase.IdentityOrdering).
		WithClock(func() time.Time { return now })

	first, err := uc.GetFeed(context.Background(), dto.FeedRequest{Limit: 10})
	require.NoError(t, err)
	second, err := uc.GetFeed(context.Background(), dto.FeedRequest{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestGetSimilar_UploaderOutweighsCategory(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-100 * 24 * time.Hour)
	uploader := bson.NewObjectID()

	seed := makeVideo("Gaming", uploader, 100, old)
	sameCategory := makeVideo("Gaming", bson.NewObjectID(), 0, old)
	sameUploader := makeVideo("Vlog", uploader, 0, old)

	mockVideoRepo := new(MockVideoRepository)
	mockVideoRepo.On("GetByID", mock.Anything, seed.ID).Return(&seed, nil)
	mockVideoRepo.On("FindRelated", mock.Anything, &seed, int64(20)).
		Return([]model.Video{sameCategory, sameUploader}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, new(MockUserRepository), new(MockHistoryRepository)).
		WithClock(func() time.Time { return now })

	res, err := uc.GetSimilar(context.Background(), seed.ID.Hex(), 10)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, sameUploader.ID, res.Similar[0].ID)
	assert.Equal(t, sameCategory.ID, res.Similar[1].ID)
}

func TestGetSimilar_RecencyAndPopularityBoosts(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-100 * 24 * time.Hour)

	seed := makeVideo("Gaming", bson.NewObjectID(), 100, old)
	stale := makeVideo("Gaming", bson.NewObjectID(), 0, old)
	fresh := makeVideo("Gaming", bson.NewObjectID(), 0, now.Add(-10*24*time.Hour))
	// 4 extra points from views; the term is floor(views/1000) with no cap.
	viral := makeVideo("Gaming", bson.NewObjectID(), 4999, old)

	mockVideoRepo := new(MockVideoRepository)
	mockVideoRepo.On("GetByID", mock.Anything, seed.ID).Return(&seed, nil)
	mockVideoRepo.On("FindRelated", mock.Anything, &seed, int64(20)).
		Return([]model.Video{stale, fresh, viral}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, new(MockUserRepository), new(MockHistoryRepository)).
		WithClock(func() time.Time { return now })

	res, err := uc.GetSimilar(context.Background(), seed.ID.Hex(), 10)
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)
	assert.Equal(t, viral.ID, res.Similar[0].ID)  // 3+4
	assert.Equal(t, fresh.ID, res.Similar[1].ID)  // 3+2
	assert.Equal(t, stale.ID, res.Similar[2].ID)  // 3
}

func TestGetSimilar_MissingSeed(t *testing.T) {
	mockVideoRepo := new(MockVideoRepository)
	missing := bson.NewObjectID()
	mockVideoRepo.On("GetByID", mock.Anything, missing).Return(nil, model.ErrNotFound)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, new(MockUserRepository), new(MockHistoryRepository))

	_, err := uc.GetSimilar(context.Background(), missing.Hex(), 10)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = uc.GetSimilar(context.Background(), "not-a-hex-id", 10)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetPublicFeed_CategoryAllMeansUnfiltered(t *testing.T) {
	mockVideoRepo := new(MockVideoRepository)
	mockVideoRepo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.VideoQuery) bool {
		return q.Category == "" && q.Sort == repository.SortPopularRecent
	})).Return([]model.Video{}, nil)

	uc := usecase.NewRecommendationUsecase(mockVideoRepo, new(MockUserRepository), new(MockHistoryRepository))

	res, err := uc.GetPublicFeed(context.Background(), 20, "all")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	mockVideoRepo.AssertExpectations(t)
}

func TestGetChannelSuggestions_ExcludesSelfAndSubscribed(t *testing.T) {
	userID := bson.NewObjectID()
	subscribed := bson.NewObjectID()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByID", mock.Anything, userID).
		Return(&model.User{ID: userID, SubscribedChannels: []bson.ObjectID{subscribed}}, nil)

	suggestion := model.User{ID: bson.NewObjectID(), Username: "creator", ChannelName: "Creator"}
	mockUserRepo.On("MostSubscribed", mock.Anything, []bson.ObjectID{userID, subscribed}, int64(10)).
		Return([]model.User{suggestion}, nil)

	uc := usecase.NewRecommendationUsecase(new(MockVideoRepository), mockUserRepo, new(MockHistoryRepository))

	res, err := uc.GetChannelSuggestions(context.Background(), userID.Hex(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, suggestion.ID.Hex(), res.Channels[0].ID)
	mockUserRepo.AssertExpectations(t)
}
