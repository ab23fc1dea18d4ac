package topic

import (
	"bytes"
	"encoding/json"
)

// ========== 请求 DTO ==========

// CreateLinkedTopicRequest 创建关联话题请求（表单或 JSON）
type CreateLinkedTopicRequest struct {
	Title    string     `form:"title" json:"title" binding:"required"`
	Markdown string     `form:"markdown" json:"markdown"`
	CID      CategoryID `form:"cid" json:"cid"`   // 非数字或 0 时使用默认父版块
	Tags     string     `form:"tags" json:"tags"` // JSON 字符串数组
	ID       string     `form:"id" json:"id" binding:"required"`
	URL      string     `form:"url" json:"url" binding:"required"`
	Slug     string     `form:"slug" json:"slug"`
	Category string     `form:"category" json:"category"` // 子版块名称
}

// CategoryID 版块ID，JSON 中可以是数字或字符串
type CategoryID string

func (id *CategoryID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = CategoryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = CategoryID(n.String())
	return nil
}

// Actor 发起请求的登录用户
type Actor struct {
	UID      int
	Username string
}

// IsAuthenticated 是否已登录
func (a Actor) IsAuthenticated() bool {
	return a.UID > 0
}

// ========== 响应 DTO ==========

// CreateResult 创建结果
type CreateResult struct {
	TopicID      int    `json:"tid"`
	CategoryID   int    `json:"cid"`
	AuthorUID    int    `json:"uid"`
	Slug         string `json:"slug,omitempty"`
	CardEmbedded bool   `json:"cardEmbedded"`
	RedirectPath string `json:"redirect"`
}
