package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskshare/internal/domain"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated *domain.User.
const ContextUserKey = "current_user"

// TokenVerifier verifies a bearer token and returns its subject username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserResolver resolves a token subject to a stored user.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Auth authenticates the request from its Authorization: Bearer header.
// Every failure mode (missing header, bad signature, expired token, unknown
// subject) produces the same 401 body so nothing about the token's
// validity is leaked.
func Auth(tokens TokenVerifier, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c)
			return
		}

		username, err := tokens.Verify(token)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
}

// CurrentUser returns the user placed in the context by Auth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
