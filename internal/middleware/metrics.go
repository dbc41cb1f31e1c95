package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parking_recommender/internal/metrics"
)

// Metrics records request counts and latency by route template, so
// /lots/LotA/spots and /lots/LotB/spots share a series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
