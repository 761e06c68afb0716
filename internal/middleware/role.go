package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireRole is a middleware that checks if the user has one of the allowed roles.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := CurrentUserID(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		role, exists := CurrentRole(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewAPIError(models.ErrForbidden, "User role not found in token"))
			return
		}

		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}

		log.WithFields(logrus.Fields{
			"user_id": userID,
			"role":    role,
			"path":    c.FullPath(),
		}).Warn("Insufficient permissions")
		c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions",
			map[string]interface{}{
				"required_roles": allowed,
				"user_role":      role,
			}))
	}
}
