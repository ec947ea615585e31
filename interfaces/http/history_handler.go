package http

import (
	"net/http"

	"viewtube/domain/dto"
	"viewtube/infrastructure/logger"
	"viewtube/interfaces/middleware"
	"viewtube/usecase"

	"github.com/gin-gonic/gin"
)

type IHistoryHandler interface {
	Record(ctx *gin.Context)
	List(ctx *gin.Context)
	Clear(ctx *gin.Context)
	DeleteEntry(ctx *gin.Context)
}

type HistoryHandler struct {
	historyUsecase usecase.IHistoryUsecase
}

func NewHistoryHandler(historyUsecase usecase.IHistoryUsecase) IHistoryHandler {
	return &HistoryHandler{historyUsecase: historyUsecase}
}

// Record handles POST /api/history.
func (h *HistoryHandler) Record(ctx *gin.Context) {
	var req dto.HistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.historyUsecase.Record(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// List handles GET /api/history.
func (h *HistoryHandler) List(ctx *gin.Context) {
	response, err := h.historyUsecase.List(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), queryInt64(ctx, "limit"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Clear handles DELETE /api/history.
func (h *HistoryHandler) Clear(ctx *gin.Context) {
	if err := h.historyUsecase.Clear(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// DeleteEntry handles DELETE /api/history/:entryId.
func (h *HistoryHandler) DeleteEntry(ctx *gin.Context) {
	err := h.historyUsecase.DeleteEntry(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("entryId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "History entry removed"})
}
