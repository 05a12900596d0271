package middleware

import (
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit throttles a route per authenticated user. Must run after
// RequireAuth.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !limiter.Allow(c.Request.Context(), userID) {
			apierrors.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
