package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func GinLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if userID, ok := UserID(c); ok {
			fields = append(fields, zap.String("user_id", userID))
		}

		if len(c.Errors) > 0 {
			logger.Error("Request error", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Info("Request", fields...)
	}
}
