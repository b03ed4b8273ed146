package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/pkg/metrics"
)

// Metrics records request counts and latency per route. The route label
// uses the gin route template, not the raw path, to keep cardinality low.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
