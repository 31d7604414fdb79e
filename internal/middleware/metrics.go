package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"photomind/internal/pkg/metrics"
)

// Metrics records request counts and latency per route template. It must run
// outside RequestLogger so recovered panics are counted with their 500.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(route).
			Observe(time.Since(start).Seconds())
	}
}
