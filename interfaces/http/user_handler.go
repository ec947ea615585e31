package http

import (
	"net/http"

	"viewtube/domain/dto"
	"viewtube/infrastructure/logger"
	"viewtube/interfaces/middleware"
	"viewtube/usecase"

	"github.com/gin-gonic/gin"
)

const ErrorUnmarshal = "Error while unmarshal"

type IUserHandler interface {
	Register(ctx *gin.Context)
	Login(ctx *gin.Context)
	GetProfile(ctx *gin.Context)
	GetChannel(ctx *gin.Context)
	Subscribe(ctx *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// Register handles POST /api/auth/register.
func (h *UserHandler) Register(ctx *gin.Context) {
	var req dto.ReqRegister
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.userUsecase.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, response)
}

// Login handles POST /api/auth/login.
func (h *UserHandler) Login(ctx *gin.Context) {
	var req dto.ReqLogin
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.userUsecase.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// GetProfile handles GET /api/auth/me.
func (h *UserHandler) GetProfile(ctx *gin.Context) {
	user, err := h.userUsecase.Get(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// GetChannel handles GET /api/users/:userId.
func (h *UserHandler) GetChannel(ctx *gin.Context) {
	user, err := h.userUsecase.Get(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Subscribe handles POST /api/users/:userId/subscribe; it toggles.
func (h *UserHandler) Subscribe(ctx *gin.Context) {
	response, err := h.userUsecase.ToggleSubscription(ctx.Request.Context(), ctx.GetString(middleware.UserIDKey), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, response)
}
