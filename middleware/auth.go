package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tdnguyen/profile-service/internal/auth"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// AuthMiddleware validates the bearer token locally and sets "user_id" and
// "email" in the gin context. A missing header, a header without the Bearer
// scheme, or a token that fails verification all abort with 401 before any
// handler runs, so no mutation can happen for an unauthenticated request.
func AuthMiddleware(verifier *auth.TokenIssuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}
		token := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := verifier.Verify(token)
		if err != nil {
			if logger != nil {
				logger.Debug("Token verification failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}
