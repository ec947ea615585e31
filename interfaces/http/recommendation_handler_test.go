package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"viewtube/domain/dto"
	"viewtube/domain/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecommendationUsecase struct {
	mock.Mock
}

func (m *MockRecommendationUsecase) GetFeed(ctx context.Context, req dto.FeedRequest) (*dto.FeedResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedResponse), args.Error(1)
}

func (m *MockRecommendationUsecase) GetPublicFeed(ctx context.Context, limit int64, category string) (*dto.FeedResponse, error) {
	args := m.Called(ctx, limit, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedResponse), args.Error(1)
}

func (m *MockRecommendationUsecase) GetSimilar(ctx context.Context, videoID string, limit int64) (*dto.SimilarResponse, error) {
	args := m.Called(ctx, videoID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SimilarResponse), args.Error(1)
}

func (m *MockRecommendationUsecase) GetChannelSuggestions(ctx context.Context, userID string, limit int64) (*dto.ChannelRecommendationResponse, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ChannelRecommendationResponse), args.Error(1)
}

func setupRecommendationRouter(uc *MockRecommendationUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(uc)
	router := gin.New()
	router.GET("/api/recommendations", handler.GetFeed)
	router.GET("/api/recommendations/similar/:videoId", handler.GetSimilar)
	return router
}

func TestRecommendationHandler_GetFeed(t *testing.T) {
	uc := new(MockRecommendationUsecase)
	uc.On("GetFeed", mock.Anything, dto.FeedRequest{Limit: 5}).
		Return(&dto.FeedResponse{Recommendations: []model.Video{}, Count: 0}, nil)

	router := setupRecommendationRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "recommendations")
	assert.Contains(t, body, "count")
}

func TestRecommendationHandler_GetSimilar_NotFound(t *testing.T) {
	uc := new(MockRecommendationUsecase)
	uc.On("GetSimilar", mock.Anything, "missing", int64(0)).
		Return(nil, model.ErrNotFound)

	router := setupRecommendationRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations/similar/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
