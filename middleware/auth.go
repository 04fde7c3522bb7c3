package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/menuqr/menuqr-api/config"
)

// AdminPasswordHeader carries the shared admin credential on admin routes.
const AdminPasswordHeader = "X-Admin-Password"

// AdminRequired guards the admin API with the single shared admin
// password from configuration. The comparison is constant-time so the
// credential cannot be probed byte by byte.
func AdminRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(AdminPasswordHeader)
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.AdminPassword)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Admin password missing or incorrect",
				},
			})
			return
		}
		c.Next()
	}
}
