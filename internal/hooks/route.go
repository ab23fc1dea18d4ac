package hooks

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/internal/middleware"
)

// SetupHookRoutes 注册论坛钩子路由，token 为空时不校验
func SetupHookRoutes(router *gin.RouterGroup, decorator PostDecorator, token string) {
	handler := NewHookHandler(decorator)

	hooks := router.Group("/hooks", middleware.HookToken(token))
	{
		hooks.POST("/topic/render", handler.TopicRender)
	}
}
