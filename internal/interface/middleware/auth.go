package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
	"github.com/oksasatya/user-events-service/pkg/response"
)

const (
	CtxClaimsKey = "claims"
	CtxUserIDKey = "userID"
)

// TokenValidator checks a raw bearer token against the active session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, raw string) (*helpers.Claims, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Auth validates the Authorization bearer token and stores its claims and user id
// in the Gin context on success.
func Auth(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.FromError(c, apperror.Auth("unauthenticated"))
			return
		}
		claims, err := v.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.FromError(c, err)
			return
		}
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth, or nil.
func ClaimsFrom(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.Claims)
	return claims
}
