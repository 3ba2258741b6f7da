package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/pkg/response"
)

// RateLimit returns a fixed-window per-IP rate limiter backed by Redis.
// keyPrefix separates limits per route group (e.g. "forms", "payment").
// Fails open when Redis is unavailable so a cache outage cannot take the
// public forms down.
func RateLimit(client *redis.Client, logger *zap.Logger, keyPrefix string, limit int, window time.Duration) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := "ratelimit:" + keyPrefix + ":" + c.ClientIP()
		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.TooManyRequests(c, "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
