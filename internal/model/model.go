package model

import (
	"gorm.io/gorm"

	"terminal-terrace/atlas-forum/internal/model/link"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	return db.AutoMigrate(
		&link.ArticleLink{},
		&link.TopicArticle{},
		&link.BlogComment{},
	)
}
