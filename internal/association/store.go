// Package association 维护目录条目与论坛话题之间的双向关联
package association

import (
	"context"
	"errors"
	"strconv"
	"time"
)

var (
	ErrNotFound      = errors.New("关联记录不存在")
	ErrInvalidRecord = errors.New("关联记录字段不完整")
)

// 与论坛共用的 redis 键
const (
	// LegacyHashKey 旧评论插件读取的 条目ID -> 话题ID 哈希
	LegacyHashKey = "blog-comments"
	// TopicsIndexKey 论坛维护的全部话题ID有序集合
	TopicsIndexKey = "topics:tid"
)

// ArticleKey article:{id}
func ArticleKey(articleID string) string {
	return "article:" + articleID
}

// TopicArticleKey topic:{tid}:article
func TopicArticleKey(topicID string) string {
	return "topic:" + topicID + ":article"
}

// Article 条目方向的记录
type Article struct {
	ID        string    `json:"id"`
	TopicID   int       `json:"tid"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// TopicArticle 话题方向的记录
type TopicArticle struct {
	TopicID   int    `json:"tid"`
	ArticleID string `json:"id"`
	URL       string `json:"url"`
}

// Store 关联存储
//
// Put 一次写入三条记录：article:{id}、topic:{tid}:article 和 blog-comments[id]。
// 重复写入同一个条目ID时后写覆盖先写，不做并发检测。
type Store interface {
	Put(ctx context.Context, articleID string, topicID int, url string) error
	FindTopicByURL(ctx context.Context, url string) (int, bool, error)
	GetByArticleID(ctx context.Context, articleID string) (*Article, error)
	GetByTopicID(ctx context.Context, topicID int) (*TopicArticle, error)
	Ping(ctx context.Context) error
}

func validate(articleID string, topicID int, url string) error {
	if articleID == "" || url == "" || topicID <= 0 {
		return ErrInvalidRecord
	}
	return nil
}

func formatTopicID(topicID int) string {
	return strconv.Itoa(topicID)
}
