package middleware

import (
	"strconv"
	"time"

	"clubhouse-backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency keyed by the matched route
// template, so ids in the path do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
