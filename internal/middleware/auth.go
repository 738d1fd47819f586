package middleware

import (
	"strings"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken prefers the Authorization header. The event stream is opened by
// browsers that cannot set headers, so ?token= is the fallback.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); tok != "" {
			return tok
		}
	}
	return c.Query("token")
}

func reject(c *gin.Context) {
	util.Unauthorized(c)
	c.Abort()
}

// AuthMiddleware stores the verified claims under util.ContextUserKey.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			reject(c)
			return
		}
		claims, err := util.ParseJWT(raw, secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err), zap.String("path", c.FullPath()))
			reject(c)
			return
		}
		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware admits the listed roles plus admin.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := map[model.UserRole]struct{}{model.Admin: {}}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			reject(c)
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
