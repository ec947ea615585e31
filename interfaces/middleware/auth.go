package middleware

import (
	"net/http"
	"strings"

	"viewtube/domain/dto"
	"viewtube/domain/model"
	"viewtube/domain/repository"
	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserIDKey is the gin context key carrying the authenticated user id hex.
const UserIDKey = "user_id"

// Auth rejects requests without a valid bearer token. The token subject must
// resolve to an existing user.
func Auth(userRepository repository.IUser) gin.HandlerFunc {
	res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}

	return func(ctx *gin.Context) {
		claims, err := parseToken(ctx.Request.Header.Get("Authorization"))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		userID, err := bson.ObjectIDFromHex(claims.Subject)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		if _, err := userRepository.GetByID(ctx.Request.Context(), userID); err != nil {
			logger.GetLogger().WithField("subject", claims.Subject).Info("Token subject not found")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		ctx.Set(UserIDKey, claims.Subject)
		ctx.Next()
	}
}

// OptionalAuth attaches the user id when a valid token is present and lets
// the request through anonymously otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, err := parseToken(ctx.Request.Header.Get("Authorization")); err == nil {
			ctx.Set(UserIDKey, claims.Subject)
		}
		ctx.Next()
	}
}

func parseToken(authorization string) (*model.UserClaims, error) {
	if authorization == "" {
		return nil, jwt.NewValidationError("missing authorization header", jwt.ValidationErrorMalformed)
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, jwt.NewValidationError("malformed authorization header", jwt.ValidationErrorMalformed)
	}

	var claims model.UserClaims
	token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.NewValidationError("unexpected signing method", jwt.ValidationErrorSignatureInvalid)
		}
		return []byte(configuration.C.App.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	return &claims, nil
}
