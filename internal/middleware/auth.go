package middleware

import (
	"context"
	"strings"

	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator 校验令牌并返回声明, 由 service.AuthService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// AuthMiddleware 仅接受 Authorization 请求头中的令牌
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, bearerToken)
}

// DownloadAuthMiddleware 供文件下载路由使用, 浏览器直链无法携带请求头时允许 ?token=
func DownloadAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return authenticate(auth, func(c *gin.Context) string {
		if token := bearerToken(c); token != "" {
			return token
		}
		return c.Query("token")
	})
}

func authenticate(auth Authenticator, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extract(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("Rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetClaims(c, claims)
		c.Next()
	}
}

func require(allowed func(util.Principal) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := util.GetPrincipal(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !allowed(p) {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff 任意管理员
func RequireStaff() gin.HandlerFunc {
	return require(util.Principal.IsStaff)
}

// RequireGlobalStaff 仅全局管理员 (role 1)
func RequireGlobalStaff() gin.HandlerFunc {
	return require(util.Principal.IsGlobalStaff)
}

func RequireStudent() gin.HandlerFunc {
	return require(util.Principal.IsStudent)
}
