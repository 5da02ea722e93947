package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/graalonline/support-service/internal/model"
	"github.com/graalonline/support-service/internal/token"
)

const identityKey = "identity"

// Auth is the single place bearer tokens are parsed. Handlers read the
// resolved identity from the context and never touch the header themselves.
type Auth struct {
	tokens *token.Service
}

func NewAuth(tokens *token.Service) *Auth {
	return &Auth{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func (a *Auth) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	id, ok := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.Set(identityKey, id)
	c.Next()
}

// RequireRole gates a route on an exact role. Runs after RequireAuth.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Identity(c)
		if !ok || id.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated principal set by RequireAuth.
func Identity(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	id, ok := v.(token.Identity)
	return id, ok
}
