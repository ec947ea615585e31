package http

import (
	"net/http"
	"strconv"

	"viewtube/domain/dto"
	"viewtube/infrastructure/logger"
	"viewtube/interfaces/middleware"
	"viewtube/usecase"

	"github.com/gin-gonic/gin"
)

type IVideoHandler interface {
	List(ctx *gin.Context)
	Search(ctx *gin.Context)
	Trending(ctx *gin.Context)
	ByUploader(ctx *gin.Context)
	Get(ctx *gin.Context)
	Upload(ctx *gin.Context)
	Delete(ctx *gin.Context)
	AddView(ctx *gin.Context)
	Like(ctx *gin.Context)
	Dislike(ctx *gin.Context)
}

type VideoHandler struct {
	videoUsecase usecase.IVideoUsecase
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

func listRequest(ctx *gin.Context) dto.VideoListRequest {
	req := dto.VideoListRequest{
		Search:     ctx.Query("search"),
		Category:   ctx.Query("category"),
		Tags:       ctx.Query("tags"),
		UploadDate: ctx.Query("uploadDate"),
		Duration:   ctx.Query("duration"),
		SortBy:     ctx.Query("sortBy"),
		Page:       queryInt64(ctx, "page"),
		Limit:      queryInt64(ctx, "limit"),
	}
	if req.Search == "" {
		req.Search = ctx.Query("q")
	}
	if raw := ctx.Query("minDuration"); raw != "" {
		if val, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.MinDuration = &val
		}
	}
	if raw := ctx.Query("maxDuration"); raw != "" {
		if val, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.MaxDuration = &val
		}
	}
	return req
}

// List handles GET /api/videos.
func (h *VideoHandler) List(ctx *gin.Context) {
	response, err := h.videoUsecase.List(ctx.Request.Context(), listRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Search handles GET /api/videos/search; unlike List it requires a query
// string and also matches channel names.
func (h *VideoHandler) Search(ctx *gin.Context) {
	response, err := h.videoUsecase.Search(ctx.Request.Context(), listRequest(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Trending handles GET /api/videos/trending.
func (h *VideoHandler) Trending(ctx *gin.Context) {
	videos, err := h.videoUsecase.Trending(ctx.Request.Context(), queryInt64(ctx, "limit"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
}

// ByUploader handles GET /api/videos/user/:userId.
func (h *VideoHandler) ByUploader(ctx *gin.Context) {
	videos, err := h.videoUsecase.ByUploader(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"videos": videos, "count": len(videos)})
}

// Get handles GET /api/videos/:videoId.
func (h *VideoHandler) Get(ctx *gin.Context) {
	video, err := h.videoUsecase.Get(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, video)
}

// Upload handles POST /api/videos.
func (h *VideoHandler) Upload(ctx *gin.Context) {
	var req dto.VideoUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.videoUsecase.Create(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, video)
}

// Delete handles DELETE /api/videos/:videoId; only the uploader may delete.
func (h *VideoHandler) Delete(ctx *gin.Context) {
	err := h.videoUsecase.Delete(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// AddView handles PUT /api/videos/:videoId/view.
func (h *VideoHandler) AddView(ctx *gin.Context) {
	views, err := h.videoUsecase.AddView(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"views": views})
}

// Like handles PUT /api/videos/:videoId/like.
func (h *VideoHandler) Like(ctx *gin.Context) {
	response, err := h.videoUsecase.Like(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Dislike handles PUT /api/videos/:videoId/dislike.
func (h *VideoHandler) Dislike(ctx *gin.Context) {
	response, err := h.videoUsecase.Dislike(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("videoId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}
