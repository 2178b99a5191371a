package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/internal/ratelimit"
)

// LoggingMiddleware logs every HTTP request after it completes.
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		c.Next()

		log.Infow("HTTP request",
			"method", method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}

const (
	rateLimitCleanupEvery = 5 * time.Minute
	rateLimitIdleAfter    = 10 * time.Minute
)

// RateLimitMiddleware throttles requests per client IP with token buckets.
// Call it once and share the returned handler so every guarded route draws
// from the same buckets.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	clients := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: float64(cfg.RequestsPerSecond),
		BurstSize:         cfg.BurstSize,
	})

	// Buckets for one-off IPs would pile up in a long-lived server.
	go func() {
		ticker := time.NewTicker(rateLimitCleanupEvery)
		defer ticker.Stop()

		for range ticker.C {
			clients.EvictIdle(rateLimitIdleAfter)
		}
	}()

	return func(c *gin.Context) {
		if !clients.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
