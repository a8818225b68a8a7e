package middleware

import (
	"errors"
	"net/http"

	"clubhouse-backend/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// RequireIdentity resolves the member through provider and aborts with 401
// when the request is anonymous.
func RequireIdentity(provider auth.Provider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := provider.Authenticate(c.Request)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
				return
			}
			logger.Error("Identity resolution failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to authenticate request"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the member id stored by RequireIdentity.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	return userID, userID != ""
}
