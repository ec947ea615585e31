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

type IWatchSessionHandler interface {
	Record(ctx *gin.Context)
	Summary(ctx *gin.Context)
}

// WatchSessionHandler exposes the viewing-time analytics. The usecase may be
// nil when no relational store is configured; both endpoints then degrade to
// 503 instead of taking the router down.
type WatchSessionHandler struct {
	watchSessionUsecase usecase.IWatchSessionUsecase
}

func NewWatchSessionHandler(watchSessionUsecase usecase.IWatchSessionUsecase) IWatchSessionHandler {
	return &WatchSessionHandler{watchSessionUsecase: watchSessionUsecase}
}

// Record handles POST /api/watch-sessions.
func (h *WatchSessionHandler) Record(ctx *gin.Context) {
	if h.watchSessionUsecase == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Watch analytics unavailable"})
		return
	}
	var req dto.WatchSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.watchSessionUsecase.Record(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Watch session recorded"})
}

// Summary handles GET /api/watch-sessions/summary.
func (h *WatchSessionHandler) Summary(ctx *gin.Context) {
	if h.watchSessionUsecase == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Watch analytics unavailable"})
		return
	}
	days := 0
	if raw := ctx.Query("days"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			days = val
		}
	}

	response, err := h.watchSessionUsecase.Summary(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}
