package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/session"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the session claims.
const ContextSessionKey = "currentSession"

// Authenticator resolves the session carried by a request.
type Authenticator interface {
	TokenFromRequest(r *http.Request) string
	Authenticate(ctx context.Context, raw string) (*session.Claims, error)
}

// RequireAuthentication rejects requests without a valid session.
func RequireAuthentication(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authn.Authenticate(c.Request.Context(), authn.TokenFromRequest(c.Request))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// PreventAuthenticatedAccess keeps signed in users away from the login and
// enrollment forms. Invalid or expired tokens are ignored.
func PreventAuthenticatedAccess(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := authn.TokenFromRequest(c.Request)
		if raw == "" {
			c.Next()
			return
		}
		if _, err := authn.Authenticate(c.Request.Context(), raw); err == nil {
			response.Error(c, appErrors.ErrAlreadyAuthenticated)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSession attaches claims when present but does not block.
func OptionalSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := authn.TokenFromRequest(c.Request)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := authn.Authenticate(c.Request.Context(), raw)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// Claims returns the session attached by one of the session middlewares.
func Claims(c *gin.Context) *session.Claims {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*session.Claims)
	if !ok {
		return nil
	}
	return claims
}
