package route

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"terminal-terrace/atlas-forum/config"
	"terminal-terrace/atlas-forum/internal/article"
	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/catalog"
	_ "terminal-terrace/atlas-forum/internal/docs"
	"terminal-terrace/atlas-forum/internal/dto"
	"terminal-terrace/atlas-forum/internal/forum"
	"terminal-terrace/atlas-forum/internal/hooks"
	"terminal-terrace/atlas-forum/internal/middleware"
	"terminal-terrace/atlas-forum/internal/topic"
	"terminal-terrace/atlas-forum/packages/response"
)

func initRoute(r *gin.Engine, conf *config.AppConfig, store association.Store) {
	// 初始化依赖
	forumClient := forum.NewClient(forum.Options{
		BaseURL:  conf.Forum.BaseURL,
		APIToken: conf.Forum.APIToken,
		Timeout:  conf.Forum.Timeout,
	})
	catalogClient := catalog.NewClient(catalog.Options{
		BaseURL:       conf.Catalog.BaseURL,
		Token:         conf.Catalog.Token,
		Collection:    conf.Catalog.Collection,
		Timeout:       conf.Catalog.Timeout,
		RatePerSecond: conf.Catalog.RatePerSecond,
		Burst:         conf.Catalog.Burst,
		SlugPrefix:    conf.Catalog.SlugPrefix,
	})
	renderer := card.NewRenderer(card.Options{
		DescriptionLimit: conf.Card.DescriptionLimit,
		EscapeHTML:       conf.Card.EscapeHTML,
		ImageTemplate:    conf.Catalog.ImageTemplate,
		ImageWidth:       conf.Card.ImageWidth,
		ImageHeight:      conf.Card.ImageHeight,
	})
	decorator := card.NewDecorator(store, catalogClient, renderer)
	bot := forum.NewBotIdentity(forumClient, conf.Forum.BotUsername)

	// 初始化service
	topicService := topic.NewTopicService(forumClient, store, bot, decorator, topic.Options{
		DefaultCategoryID: conf.Forum.DefaultCategoryID,
		AuthorPolicy:      conf.Forum.AuthorPolicy,
		EmbedCard:         conf.Card.EmbedOnCreate,
	})
	articleService := article.NewArticleService(store, decorator)

	// 运维接口
	r.GET("/healthz", healthz(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 创建关联话题，需要识别登录用户
	authed := r.Group("", middleware.OptionalJWTAuth(conf.JWT.Secret))
	topic.SetupTopicRoutes(authed, topicService, conf.Forum.LoginPath)

	// 查询接口
	article.SetupArticleRoutes(r.Group("/api"), articleService, conf.CORS.AtlasOrigin)

	// 论坛渲染钩子
	hooks.SetupHookRoutes(r.Group(""), decorator, conf.Hooks.Token)
}

// healthz 存储可用时返回 200
func healthz(store association.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			dto.ErrorResponse(c, response.NewBusinessError(
				response.WithErrorCode(response.Upstream),
				response.WithErrorMessage("关联存储不可用"),
				response.WithError(err),
			))
			return
		}
		dto.SuccessResponse(c, gin.H{"status": http.StatusText(http.StatusOK)})
	}
}

func SetupRouter(conf *config.AppConfig, store association.Store) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.Metrics())

	initRoute(r, conf, store)

	return r
}
