package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"
	"viewtube/infrastructure/utils"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const tokenLifetime = 7 * 24 * time.Hour

type IUserUsecase interface {
	Register(ctx context.Context, req dto.ReqRegister) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.ReqLogin) (*dto.AuthResponse, error)
	Get(ctx context.Context, id string) (*model.User, error)
	ToggleSubscription(ctx context.Context, userID, channelID string) (*dto.SubscriptionResponse, error)
}

type UserUsecase struct {
	userRepo repository.IUser
	now      func() time.Time
}

func NewUserUsecase(userRepo repository.IUser) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, now: utils.GetCurrentTime}
}

func hashPassword(password string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(password)))
}

func (u *UserUsecase) Register(ctx context.Context, req dto.ReqRegister) (*dto.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", model.ErrValidation)
	}

	if _, err := u.userRepo.GetByUserName(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", model.ErrValidation)
	}
	if _, err := u.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", model.ErrValidation)
	}

	channelName := strings.TrimSpace(req.ChannelName)
	if channelName == "" {
		channelName = req.Username
	}
	now := u.now()
	user := &model.User{
		Username:           req.Username,
		Email:              req.Email,
		Password:           hashPassword(req.Password),
		ChannelName:        channelName,
		Subscribers:        []bson.ObjectID{},
		SubscribedChannels: []bson.ObjectID{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u.issueToken(user)
}

func (u *UserUsecase) Login(ctx context.Context, req dto.ReqLogin) (*dto.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrValidation)
	}
	if user.Password != hashPassword(req.Password) {
		logger.GetLogger().WithField("email", req.Email).Info("Login failed")
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrValidation)
	}
	return u.issueToken(user)
}

func (u *UserUsecase) issueToken(user *model.User) (*dto.AuthResponse, error) {
	claims := model.UserClaims{
		UserName: user.Username,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  u.now().Unix(),
			ExpiresAt: u.now().Add(tokenLifetime).Unix(),
		},
	}
	token, err := utils.GenerateToken(claims, configuration.C.App.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (u *UserUsecase) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user %q", model.ErrNotFound, id)
	}
	user, err := u.userRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ToggleSubscription subscribes when absent and unsubscribes when present,
// keeping both sides of the relation consistent.
func (u *UserUsecase) ToggleSubscription(ctx context.Context, userID, channelID string) (*dto.SubscriptionResponse, error) {
	if userID == channelID {
		return nil, fmt.Errorf("%w: cannot subscribe to your own channel", model.ErrValidation)
	}
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", model.ErrValidation)
	}
	cid, err := bson.ObjectIDFromHex(channelID)
	if err != nil {
		return nil, fmt.Errorf("%w: channel %q", model.ErrNotFound, channelID)
	}
	subscribed, subscribers, err := u.userRepo.ToggleSubscription(ctx, uid, cid)
	if err != nil {
		return nil, fmt.Errorf("toggle subscription: %w", err)
	}
	message := "Unsubscribed"
	if subscribed {
		message = "Subscribed"
	}
	return &dto.SubscriptionResponse{Message: message, Subscribed: subscribed, SubscriberCount: subscribers}, nil
}
