package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
	usersvc "farmfresh-market/internal/service/user"
)

const ctxUserKey = "authUser"

// authUser is the identity attached to the request by authRequired.
type authUser struct {
	ID    string
	Email string
	Role  domain.Role
}

// authRequired validates the Bearer token and attaches the caller's identity
// to the gin context. Missing token: 401; invalid or expired: 403.
func authRequired(tokens *usersvc.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(ctxUserKey, authUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// currentAuthUser returns the identity set by authRequired.
func currentAuthUser(c *gin.Context) (authUser, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return authUser{}, false
	}
	u, ok := v.(authUser)
	return u, ok
}

// requestLogger emits one structured line per request.
func requestLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		lg.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
