// Package hooks 论坛渲染钩子
package hooks

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/internal/card"
)

// PostDecorator 刷新首帖中的卡片，见 card.Decorator
type PostDecorator interface {
	DecoratePosts(ctx context.Context, topicID int, posts []card.Post) bool
}

// HookHandler 渲染钩子处理器
type HookHandler struct {
	decorator PostDecorator
}

// NewHookHandler 创建处理器实例
func NewHookHandler(decorator PostDecorator) *HookHandler {
	return &HookHandler{decorator: decorator}
}

// TopicRender 论坛展示话题帖子前调用
// POST /hooks/topic/render
//
// 载荷 {tid, posts:[{pid,index,content,...}], ...} 原样返回，只改写首帖 content。
// 无法识别的载荷同样原样返回，钩子不能因为目录服务故障影响话题展示。
//
// @Summary 论坛渲染钩子
// @Tags Hooks
// @Accept json
// @Produce json
// @Param X-Hook-Token header string false "共享令牌"
// @Success 200 {object} map[string]any
// @Router /hooks/topic/render [post]
func (h *HookHandler) TopicRender(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hook payload"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	tid, ok := topicID(payload["tid"])
	if !ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	posts := postsOf(payload["posts"])
	if h.decorator.DecoratePosts(c.Request.Context(), tid, posts) {
		log.Printf("[hooks] 话题 %d 的卡片已刷新", tid)
	}
	c.JSON(http.StatusOK, payload)
}

// topicID 兼容数字和字符串形式的 tid
func topicID(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), t > 0
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}

// postsOf 取出帖子列表，元素与 payload 共享底层 map，修改会反映到响应中
func postsOf(v any) []card.Post {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	posts := make([]card.Post, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			posts = append(posts, card.Post(m))
		}
	}
	return posts
}
