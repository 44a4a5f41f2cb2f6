package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/auth"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys
const (
	ClaimsKey     = "auth_claims"
	ScopeKey      = "auth_scope"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's claims and scope on the context
func JWTAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.Debug("Token rejected", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, "Token has expired")
			case errors.Is(err, auth.ErrTokenRevoked):
				abortUnauthorized(c, "Token has been revoked")
			default:
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ScopeKey, claims.Scope())
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(shared.CodeUnauthorized, message, GetRequestID(c)))
}

// GetClaims returns the claims stored by JWTAuth, nil when unauthenticated
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetScope returns the caller scope stored by JWTAuth. Unauthenticated
// requests get an empty scope, which has no permissions.
func GetScope(c *gin.Context) identity.Scope {
	if v, ok := c.Get(ScopeKey); ok {
		if scope, ok := v.(identity.Scope); ok {
			return scope
		}
	}
	return identity.Scope{}
}

// RequirePermission stops the request early when the caller's role may not
// perform action on resource. Services check again; this only saves work.
func RequirePermission(resource identity.Resource, action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetScope(c).Require(resource, action); err != nil {
			status, body := dto.FromError(err, GetRequestID(c))
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Next()
	}
}
