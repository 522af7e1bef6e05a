package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Amiththillenkery/ammafreshghee/config"
	"github.com/gin-gonic/gin"
)

// RequireAdminKey guards admin routes with the static x-api-key header.
// A missing or wrong key gets a 403; the key itself is never logged.
func RequireAdminKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.AdminAPIKey)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin access required",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
