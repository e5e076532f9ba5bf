package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
)

// RateLimit enforces a fixed-window request counter per user per endpoint.
// Counters live in Redis; when Redis is unavailable the limiter stands
// down rather than blocking traffic.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RDB == nil {
			c.Next()
			return
		}

		userID := c.GetUint("user_id")
		key := fmt.Sprintf("ratelimit:%d:%s:%s", userID, c.Request.Method, c.FullPath())

		count, err := config.RDB.Incr(config.Ctx, key).Result()
		if err != nil {
			slog.Error("Rate limit counter failed", "error", err, "key", key)
			c.Next()
			return
		}
		if count == 1 {
			// First hit opens the window.
			if err := config.RDB.Expire(config.Ctx, key, window).Err(); err != nil {
				slog.Error("Rate limit expiry failed", "error", err, "key", key)
			}
		}

		if count > int64(limit) {
			retryAfter := window
			if ttl, err := config.RDB.TTL(config.Ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests",
				"retryAfter": seconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
