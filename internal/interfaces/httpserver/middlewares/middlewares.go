package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"upload-gateway/internal/infrastructure/metrics"
)

// MetricsRecorder records HTTP request metrics for Prometheus.
func MetricsRecorder() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Skip metrics for health/readiness/metrics endpoints
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" || path == "/metrics" {
			return
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordRequest(c.Request.Method, path, status, time.Since(start).Seconds())
	}
}
