package middleware

import (
	"context"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/util"
	"mindleap_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer token，也接受 ?token= 查询参数
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.RoleAdmin
		for _, role := range roles {
			if hasRole {
				break
			}
			hasRole = user.Role == role
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PermissionChecker 查询子管理员权限
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uint, perm string) (bool, error)
}

// PermissionMiddleware 子管理员需具备 perm 权限，管理员直接放行
func PermissionMiddleware(checker PermissionChecker, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if user.Role == model.RoleAdmin {
			c.Next()
			return
		}

		ok, err := checker.HasPermission(c.Request.Context(), user.UserID, perm)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		if !ok {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
