package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/token_go_server/internal/pkg/jwt"
	"github.com/qs3c/token_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
)

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// GatewayAuth 支付网关回调鉴权, 校验约定的回调令牌
func GatewayAuth(callbackToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if callbackToken == "" || c.GetHeader("X-Gateway-Token") != callbackToken {
			response.AuthError(c, "回调鉴权失败")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
