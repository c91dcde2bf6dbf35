package middleware

import (
	"net/http"

	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireRole allows only the listed roles past this point
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[GetRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient role"))
			return
		}
		c.Next()
	}
}

// RequireStaff allows admins and managers only
func RequireStaff() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin, identity.RoleManager)
}

// RequireCapability checks the authenticated role against the role
// capability map
func RequireCapability(capability identity.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRole(c).Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}
