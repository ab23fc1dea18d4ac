package topic

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const createLinkedTopicPath = "/create-linked-topic"

// TopicHandler 关联话题处理器
type TopicHandler struct {
	service   TopicService
	loginPath string
}

// NewTopicHandler 创建处理器实例
func NewTopicHandler(service TopicService, loginPath string) *TopicHandler {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &TopicHandler{
		service:   service,
		loginPath: loginPath,
	}
}

// ShowCreateLinkedTopic 直接访问时的提示
// @Summary 直接访问提示
// @Tags Topic
// @Produce plain
// @Success 200 {string} string
// @Failure 302 {string} string "跳转登录页"
// @Router /create-linked-topic [get]
func (h *TopicHandler) ShowCreateLinkedTopic(c *gin.Context) {
	if !actorFromContext(c).IsAuthenticated() {
		h.redirectToLogin(c)
		return
	}
	c.String(http.StatusOK, `This endpoint requires POST data. Please use the "Start a Discussion" button on species pages.`)
}

// CreateLinkedTopic 创建关联话题并跳转
// @Summary 创建关联话题
// @Tags Topic
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param title formData string true "话题标题"
// @Param id formData string true "条目ID"
// @Param url formData string true "条目地址"
// @Param markdown formData string false "首帖内容"
// @Param cid formData int false "父版块ID"
// @Param tags formData string false "JSON 字符串数组"
// @Param slug formData string false "自定义 slug"
// @Param category formData string false "子版块名称"
// @Success 302 {string} string "跳转到 /topic/{tid}"
// @Failure 400 {string} string
// @Failure 500 {string} string
// @Router /create-linked-topic [post]
func (h *TopicHandler) CreateLinkedTopic(c *gin.Context) {
	// 1. 绑定表单
	var req CreateLinkedTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.handleError(c, ErrMissingFields)
			return
		}
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. 调用服务层
	result, err := h.service.CreateLinkedTopic(c.Request.Context(), actorFromContext(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// 3. 跳转到新话题
	c.Redirect(http.StatusFound, result.RedirectPath)
}

func (h *TopicHandler) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, h.loginPath+"?local=1&next="+createLinkedTopicPath)
}

// ========== 错误处理 ==========

// handleError 统一错误处理，返回纯文本
func (h *TopicHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		c.String(http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, ErrInvalidTags):
		c.String(http.StatusBadRequest, "Invalid tags")
	case errors.Is(err, ErrAuthRequired):
		h.redirectToLogin(c)
	case errors.Is(err, ErrTopicNotCreated):
		c.String(http.StatusInternalServerError, "Failed to create topic")
	default:
		c.String(http.StatusInternalServerError, "Error: "+err.Error())
	}
}

// actorFromContext 读取认证中间件写入的用户信息
func actorFromContext(c *gin.Context) Actor {
	uid := c.GetInt("user_id")
	return Actor{UID: uid, Username: c.GetString("username")}
}
