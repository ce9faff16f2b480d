package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// lockTTL caps how long a stuck submission can block a user. A normal
// checkout finishes well inside it.
const lockTTL = 30 * time.Second

// CheckoutLockMiddleware prevents double submission: one in-flight
// checkout per user, enforced with a Redis SETNX lock. Replaces the
// client-side disabled-button guard with something the server owns.
func CheckoutLockMiddleware(client *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to continue"})
			c.Abort()
			return
		}

		key := fmt.Sprintf("checkout-lock:%s", claims.UserID)
		acquired, err := client.SetNX(c.Request.Context(), key, "1", lockTTL).Result()
		if err != nil {
			// Redis trouble should not block checkout; the platform's
			// own idempotency still protects against duplicates.
			logger.Warn("Checkout lock unavailable, continuing", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "a checkout is already in progress",
			})
			c.Abort()
			return
		}

		defer func() {
			if err := client.Del(c.Request.Context(), key).Err(); err != nil {
				logger.Warn("Failed to release checkout lock", zap.Error(err))
			}
		}()

		c.Next()
	}
}
