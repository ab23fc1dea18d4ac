package topic

import (
	"github.com/gin-gonic/gin"
)

// SetupTopicRoutes 注册创建关联话题路由，需要挂在 OptionalJWTAuth 之后
func SetupTopicRoutes(router gin.IRoutes, service TopicService, loginPath string) {
	handler := NewTopicHandler(service, loginPath)

	router.GET(createLinkedTopicPath, handler.ShowCreateLinkedTopic)
	router.POST(createLinkedTopicPath, handler.CreateLinkedTopic)
}
