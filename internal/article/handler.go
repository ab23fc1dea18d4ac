package article

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/catalog"
)

// ArticleHandler 关联查询处理器
type ArticleHandler struct {
	service ArticleService
}

// NewArticleHandler 创建处理器实例
func NewArticleHandler(service ArticleService) *ArticleHandler {
	return &ArticleHandler{
		service: service,
	}
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// TopicByURL 按条目地址查找话题
// @Summary 按条目地址查找话题
// @Tags Article
// @Produce json
// @Param url query string true "条目地址"
// @Param articleId query string false "条目ID，找到话题时补写关联"
// @Success 200 {object} TopicLookup
// @Failure 400 {object} ErrorResponse
// @Router /api/topic-by-url [get]
func (h *ArticleHandler) TopicByURL(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url is required"})
		return
	}

	result, err := h.service.TopicByURL(c.Request.Context(), url, c.Query("articleId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckArticle 查看条目的关联记录
// @Summary 查看条目的关联记录
// @Tags Article
// @Produce json
// @Param articleId path string true "条目ID"
// @Success 200 {object} ArticleStatus
// @Router /api/check-article/{articleId} [get]
func (h *ArticleHandler) CheckArticle(c *gin.Context) {
	result, err := h.service.CheckArticle(c.Request.Context(), c.Param("articleId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SpeciesForTopic 话题页客户端渲染卡片
// @Summary 话题关联的物种数据
// @Tags Article
// @Produce json
// @Param tid path int true "话题ID"
// @Success 200 {object} card.SpeciesView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/species-for-topic/{tid} [get]
func (h *ArticleHandler) SpeciesForTopic(c *gin.Context) {
	tid, err := strconv.Atoi(c.Param("tid"))
	if err != nil || tid <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid topic ID"})
		return
	}

	view, err := h.service.SpeciesForTopic(c.Request.Context(), tid)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ========== 错误处理 ==========

// handleError 统一错误处理
func (h *ArticleHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, card.ErrNoCard):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No article linked to this topic"})
	case errors.Is(err, catalog.ErrSpeciesNotFound), errors.Is(err, catalog.ErrNoSlug):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Species not found"})
	case errors.Is(err, catalog.ErrUpstream):
		log.Printf("[article] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Catalog service unavailable"})
	default:
		log.Printf("[article] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
