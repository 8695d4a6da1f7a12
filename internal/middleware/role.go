package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/docky-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It must run after Authenticate.
func RequireRole(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity.IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		if identity.Role() != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Unauthorized", map[string]interface{}{
				"required_role": requiredRole,
			}))
			return
		}

		c.Next()
	}
}
