package dto

// Res is the minimal response envelope used by the auth middleware.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

type ReqRegister struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	ChannelName string `json:"channelName" binding:"required"`
}

type ReqLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse returns the issued token plus a public view of the user.
type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type SubscriptionResponse struct {
	Message         string `json:"message"`
	Subscribed      bool   `json:"subscribed"`
	SubscriberCount int    `json:"subscriberCount"`
}
