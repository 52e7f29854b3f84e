package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patisserie-shop/storefront/internal/domain/model"
	pkgAuth "github.com/patisserie-shop/storefront/internal/pkg/auth"
)

// IdentityContextKey is a gin context key for the resolved viewer identity.
const IdentityContextKey = "viewerIdentity"

// ViewerIdentity resolves the session identity once per request. An invalid
// or absent token leaves the request anonymous; gating happens downstream.
func ViewerIdentity(tokens pkgAuth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := tokens.Identity(); err == nil {
			c.Set(IdentityContextKey, identity)
		}
		c.Next()
	}
}

// AdminRequired blocks mutating endpoints for non-admin viewers.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(IdentityContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		identity, ok := val.(pkgAuth.Identity)
		if !ok || identity.Role != model.RoleAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// CurrentIdentity extracts the resolved viewer identity, if any.
func CurrentIdentity(c *gin.Context) (pkgAuth.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return pkgAuth.Identity{}, false
	}
	identity, ok := val.(pkgAuth.Identity)
	return identity, ok
}
