package usecase_test

import (
	"context"
	"testing"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUserUsecase_RegisterRejectsTakenUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByUserName", mock.Anything, "gopher").
		Return(&model.User{Username: "gopher"}, nil)

	uc := usecase.NewUserUsecase(mockUserRepo)

	_, err := uc.Register(context.Background(), dto.ReqRegister{
		Username: "gopher",
		Email:    "gopher@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_LoginRejectsWrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "gopher@example.com").
		Return(&model.User{
			ID:       bson.NewObjectID(),
			Username: "gopher",
			Email:    "gopher@example.com",
			// md5 of "secret"
			Password: "5ebe2294ecd0e0f08eab7690d2a6ee69",
		}, nil)

	uc := usecase.NewUserUsecase(mockUserRepo)

	_, err := uc.Login(context.Background(), dto.ReqLogin{Email: "gopher@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUserUsecase_LoginIssuesToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", mock.Anything, "gopher@example.com").
		Return(&model.User{
			ID:       bson.NewObjectID(),
			Username: "gopher",
			Email:    "gopher@example.com",
			Password: "5ebe2294ecd0e0f08eab7690d2a6ee69",
		}, nil)

	uc := usecase.NewUserUsecase(mockUserRepo)

	res, err := uc.Login(context.Background(), dto.ReqLogin{Email: "gopher@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestUserUsecase_SelfSubscribeRejected(t *testing.T) {
	uc := usecase.NewUserUsecase(new(MockUserRepository))

	id := bson.NewObjectID().Hex()
	_, err := uc.ToggleSubscription(context.Background(), id, id)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUserUsecase_ToggleSubscription(t *testing.T) {
	userID := bson.NewObjectID()
	channelID := bson.NewObjectID()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("ToggleSubscription", mock.Anything, userID, channelID).
		Return(true, 8, nil)

	uc := usecase.NewUserUsecase(mockUserRepo)

	res, err := uc.ToggleSubscription(context.Background(), userID.Hex(), channelID.Hex())
	require.NoError(t, err)
	assert.True(t, res.Subscribed)
	assert.Equal(t, 8, res.SubscriberCount)
	assert.Equal(t, "Subscribed", res.Message)
}
