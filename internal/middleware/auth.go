package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/chat-rooms/internal/services"
	"github.com/thereayou/chat-rooms/pkg/auth"
	apperrors "github.com/thereayou/chat-rooms/pkg/errors"
)

const (
	UserIDKey   = "userID"
	UserNameKey = "userName"
)

// AuthMiddleware проверяет токен из Authorization header, query token или cookie session
func AuthMiddleware(authenticator services.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": apperrors.Reason(apperrors.ErrUnauthenticated)})
			return
		}

		identity, err := authenticator.VerifyCredential(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": apperrors.Reason(err)})
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(UserNameKey, identity.DisplayName)
		c.Next()
	}
}

// UserID идентификатор пользователя, выставленный AuthMiddleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
