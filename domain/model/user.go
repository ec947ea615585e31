package model

import (
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User doubles as a channel: Subscribers is the inverse of SubscribedChannels
// and the subscription toggle keeps both sides consistent.
type User struct {
	ID                 bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username           string          `bson:"username" json:"username"`
	Email              string          `bson:"email" json:"email"`
	Password           string          `bson:"password" json:"-"`
	ChannelName        string          `bson:"channelName" json:"channelName"`
	ChannelDescription string          `bson:"channelDescription" json:"channelDescription"`
	ProfilePicture     string          `bson:"profilePicture" json:"profilePicture"`
	Subscribers        []bson.ObjectID `bson:"subscribers" json:"subscribers"`
	SubscribedChannels []bson.ObjectID `bson:"subscribedChannels" json:"subscribedChannels"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) SubscriberCount() int { return len(u.Subscribers) }

// UserClaims carries the authenticated identity; Subject holds the user id hex.
type UserClaims struct {
	UserName string `json:"username"`
	jwt.StandardClaims
}
