package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/spms-dev/spms/internal/auth"
	"github.com/spms-dev/spms/internal/core/domain"
)

// principalKey is where the verified principal is stored in the gin context.
const principalKey = "principal"

// AuthRequired is the auth gate: it reads the session cookie, verifies the
// token and stores the decoded principal in the request context. A missing
// or invalid token aborts with 401. No role check happens here; every
// route compares the role against the operation it guards.
func AuthRequired(codec *auth.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.TokenFromRequest(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		principal, ok := codec.Verify(token)
		if !ok {
			zerolog.Ctx(c.Request.Context()).Warn().Msg("Session token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RoleRequired aborts with 403 unless the authenticated principal holds
// the given role. Must run after AuthRequired.
func RoleRequired(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if principal.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthRequired.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := v.(domain.Principal)
	return principal, ok
}
