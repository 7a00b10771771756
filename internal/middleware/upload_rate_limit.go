package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aquarela/backend/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// UploadRateLimit caps how many paintings the admin can upload per day.
// The counter lives in Redis and resets at midnight.
func UploadRateLimit(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		if !isUploadEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Single shared admin identity, keyed by date only.
		today := time.Now().Format("2006-01-02")
		key := fmt.Sprintf("upload_limit:admin:%s", today)

		maxPerDay := cfg.UploadMaxPerDay

		count, err := redisClient.Get(ctx, key).Int()
		if err == redis.Nil {
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
			if err := redisClient.Set(ctx, key, 1, midnight.Sub(now)).Err(); err != nil {
				// Redis error - don't block the upload
				c.Next()
				return
			}
		} else if err != nil {
			// Redis error - don't block the upload
			c.Next()
			return
		} else if count >= maxPerDay {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "upload_rate_limit_exceeded",
				"message":             "Too many uploads today. Please try again tomorrow.",
				"retry_after_hours":   int(ttl.Hours()),
				"uploads_today":       count,
				"max_uploads_per_day": maxPerDay,
			})
			c.Abort()
			return
		} else {
			redisClient.Incr(ctx, key)
		}

		c.Next()
	}
}

// isUploadEndpoint checks if the path is an upload endpoint
func isUploadEndpoint(path string) bool {
	switch path {
	case "/api/v1/admin/paintings",
		"/api/v1/admin/paintings/batch":
		return true
	}
	// Gallery image uploads: /api/v1/admin/paintings/:id/gallery-images
	if len(path) > len("/api/v1/admin/paintings/") &&
		path[len(path)-len("/gallery-images"):] == "/gallery-images" {
		return true
	}
	return false
}
