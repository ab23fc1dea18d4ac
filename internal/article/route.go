package article

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupArticleRoutes 注册查询路由
// topic-by-url 由目录前端跨域调用，只给 atlasOrigin 返回跨域头
func SetupArticleRoutes(router *gin.RouterGroup, service ArticleService, atlasOrigin string) {
	handler := NewArticleHandler(service)

	lookup := router.Group("")
	if atlasOrigin != "" {
		lookup.Use(atlasCORS(atlasOrigin))
		lookup.OPTIONS("/topic-by-url", func(c *gin.Context) {})
	}
	lookup.GET("/topic-by-url", handler.TopicByURL)

	router.GET("/check-article/:articleId", handler.CheckArticle)
	router.GET("/species-for-topic/:tid", handler.SpeciesForTopic)
}

// atlasCORS 其他来源的请求照常处理，只是不带跨域头
// cors 中间件对不在白名单的来源直接返回 403
func atlasCORS(atlasOrigin string) gin.HandlerFunc {
	handle := cors.New(cors.Config{
		AllowOrigins: []string{atlasOrigin},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	})
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && origin != atlasOrigin {
			c.Next()
			return
		}
		handle(c)
	}
}
