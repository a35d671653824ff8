package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/folioworks/portfolio-api/internal/modules/serializer"
)

// RateLimit caps requests per client IP inside a fixed window, backed by a
// redis counter. Redis being unreachable fails open: the request proceeds.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		n, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if n == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if n > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, serializer.Err("too many requests, try again later", nil))
			return
		}

		c.Next()
	}
}
