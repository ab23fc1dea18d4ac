package middleware

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/internal/dto"
	"terminal-terrace/atlas-forum/packages/authsdk"
	"terminal-terrace/atlas-forum/packages/response"
)

// setUser 将用户信息存入上下文
func setUser(c *gin.Context, user *authsdk.UserContext) {
	c.Set("user_id", user.UserID)
	c.Set("username", user.Username)
}

// JWTAuth JWT 认证中间件（必需认证）
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := authsdk.ExtractTokenFromRequest(c.Request)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		user, err := authsdk.ParseToken(token, secret)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（不强制要求认证，但如果有token则解析）
// 未登录时不写入 user_id，处理器通过 c.GetInt("user_id") == 0 判断
func OptionalJWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := authsdk.GetUserFromRequest(c.Request, secret); user.IsAuthenticated() {
			setUser(c, user)
		}
		// 无论是否有 token，都继续执行
		c.Next()
	}
}

// HookToken 校验论坛渲染钩子携带的共享令牌，未配置令牌时放行
func HookToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token != "" && c.GetHeader("X-Hook-Token") != token {
			abortUnauthorized(c, authsdk.ErrInvalidToken)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	dto.AbortWithError(c, response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage(err.Error()),
	))
}
