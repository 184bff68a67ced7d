package middleware

import (
	"context"
	"time"

	"query-hub/cloud"

	"github.com/gin-gonic/gin"
)

// MetricsRecorder is the part of cloud.MetricsClient the middleware needs.
type MetricsRecorder interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// MetricsMiddleware records request count, latency and errors per route.
func MetricsMiddleware(metrics MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil || !metrics.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metrics.RecordCount(ctx, cloud.MetricHTTPRequests, dimensions)
			_ = metrics.RecordLatency(ctx, cloud.MetricHTTPLatency, duration, dimensions)

			if status >= 400 {
				_ = metrics.RecordCount(ctx, cloud.MetricHTTPErrors, dimensions)
				if status >= 500 {
					_ = metrics.RecordCount(ctx, cloud.MetricHTTP5xx, dimensions)
				} else {
					_ = metrics.RecordCount(ctx, cloud.MetricHTTP4xx, dimensions)
				}
			}
		}()
	}
}

// statusCodeToRange converts status code to a range string (2xx, 3xx, 4xx, 5xx)
func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
