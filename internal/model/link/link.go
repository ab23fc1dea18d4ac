// Package link 物种条目与论坛话题的关联模型
package link

import (
	"time"

	"gorm.io/gorm"
)

// ArticleLink 条目 -> 话题
// 对应 redis 中的 article:{id}
type ArticleLink struct {
	ArticleID string    `gorm:"primaryKey;type:varchar(191);comment:目录条目ID" json:"id"`
	TopicID   int       `gorm:"not null;index;comment:话题ID" json:"tid"`
	URL       string    `gorm:"type:varchar(2048);not null;comment:条目规范地址" json:"url"`
	LinkedAt  time.Time `gorm:"not null;comment:关联写入时间" json:"timestamp"`
}

// TableName 指定表名
func (ArticleLink) TableName() string {
	return "article_links"
}

// TopicArticle 话题 -> 条目
// 对应 redis 中的 topic:{tid}:article，url 上有索引用于按地址查找话题
type TopicArticle struct {
	TopicID   int    `gorm:"primaryKey;autoIncrement:false;comment:话题ID" json:"tid"`
	ArticleID string `gorm:"type:varchar(191);not null;comment:目录条目ID" json:"id"`
	URL       string `gorm:"type:varchar(2048);not null;index;comment:条目规范地址" json:"url"`
}

// TableName 指定表名
func (TopicArticle) TableName() string {
	return "topic_articles"
}

// BlogComment 旧评论插件读取的 条目ID -> 话题ID 映射
// 对应 redis 中的 blog-comments 哈希
type BlogComment struct {
	ArticleID string `gorm:"primaryKey;type:varchar(191)" json:"article_id"`
	TopicID   int    `gorm:"column:tid;not null" json:"tid"`
}

// TableName 指定表名
func (BlogComment) TableName() string {
	return "blog_comments"
}

// BeforeSave GORM钩子：两个方向都不允许空地址
func (l *ArticleLink) BeforeSave(tx *gorm.DB) error {
	if l.ArticleID == "" || l.URL == "" || l.TopicID <= 0 {
		return gorm.ErrInvalidData
	}
	return nil
}
