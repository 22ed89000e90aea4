package middleware

import (
	"net/http"

	"piazza/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LifecycleSweeper flips every Live post whose expiration has passed to Expired.
type LifecycleSweeper interface {
	ExpireDue() (int64, error)
}

// SweepMiddleware reconciles post statuses before any request on the posts
// surface is served. A request arriving between periodic sweeps must still
// never observe a stale Live status on a due post.
func SweepMiddleware(sweeper LifecycleSweeper, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		expired, err := sweeper.ExpireDue()
		if err != nil {
			log.Error("Failed to sweep expired posts: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post statuses"})
			c.Abort()
			return
		}
		if expired > 0 {
			log.Info("Swept %d expired posts", expired)
		}
		c.Next()
	}
}
