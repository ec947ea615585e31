package http

import (
	"net/http"
	"strconv"

	"viewtube/domain/dto"
	"viewtube/interfaces/middleware"
	"viewtube/usecase"

	"github.com/gin-gonic/gin"
)

type IRecommendationHandler interface {
	GetFeed(ctx *gin.Context)
	GetPublicFeed(ctx *gin.Context)
	GetSimilar(ctx *gin.Context)
	GetChannelSuggestions(ctx *gin.Context)
}

type RecommendationHandler struct {
	recommendationUsecase usecase.IRecommendationUsecase
}

func NewRecommendationHandler(recommendationUsecase usecase.IRecommendationUsecase) IRecommendationHandler {
	return &RecommendationHandler{recommendationUsecase: recommendationUsecase}
}

// GetFeed handles GET /api/recommendations. Anonymous callers get the
// popularity feed through the same endpoint.
func (h *RecommendationHandler) GetFeed(ctx *gin.Context) {
	req := dto.FeedRequest{
		UserID:  ctx.GetString(middleware.UserIDKey),
		Limit:   queryInt64(ctx, "limit"),
		Exclude: ctx.Query("exclude"),
	}

	response, err := h.recommendationUsecase.GetFeed(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// GetPublicFeed handles GET /api/recommendations/public.
func (h *RecommendationHandler) GetPublicFeed(ctx *gin.Context) {
	limit := queryInt64(ctx, "limit")
	category := ctx.DefaultQuery("category", "all")

	response, err := h.recommendationUsecase.GetPublicFeed(ctx.Request.Context(), limit, category)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// GetSimilar handles GET /api/recommendations/similar/:videoId.
func (h *RecommendationHandler) GetSimilar(ctx *gin.Context) {
	response, err := h.recommendationUsecase.GetSimilar(ctx.Request.Context(), ctx.Param("videoId"), queryInt64(ctx, "limit"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// GetChannelSuggestions handles GET /api/recommendations/channels.
func (h *RecommendationHandler) GetChannelSuggestions(ctx *gin.Context) {
	userID := ctx.GetString(middleware.UserIDKey)

	response, err := h.recommendationUsecase.GetChannelSuggestions(ctx.Request.Context(), userID, queryInt64(ctx, "limit"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

func queryInt64(ctx *gin.Context, name string) int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return 0
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return val
}
