package association

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"terminal-terrace/atlas-forum/internal/model/link"
)

// SQLStore 基于 gorm 的关联存储，url 列有索引，按地址查找不需要全表扫描
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLStore 创建 SQL 关联存储，表结构由 model.InitTable 负责迁移
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Put 在一个事务中 upsert 三张表
func (s *SQLStore) Put(ctx context.Context, articleID string, topicID int, url string) error {
	if err := validate(articleID, topicID, url); err != nil {
		return err
	}

	upsert := clause.OnConflict{UpdateAll: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(upsert).Create(&link.ArticleLink{
			ArticleID: articleID,
			TopicID:   topicID,
			URL:       url,
			LinkedAt:  s.now(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(upsert).Create(&link.TopicArticle{
			TopicID:   topicID,
			ArticleID: articleID,
			URL:       url,
		}).Error; err != nil {
			return err
		}
		return tx.Clauses(upsert).Create(&link.BlogComment{
			ArticleID: articleID,
			TopicID:   topicID,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("写入关联 article:%s -> topic:%d 失败: %w", articleID, topicID, err)
	}
	return nil
}

// FindTopicByURL 按 url 索引查找，多个话题指向同一地址时取最早的话题
func (s *SQLStore) FindTopicByURL(ctx context.Context, url string) (int, bool, error) {
	if url == "" {
		return 0, false, nil
	}

	var row link.TopicArticle
	err := s.db.WithContext(ctx).
		Where("url = ?", url).
		Order("topic_id ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("按地址查找话题失败: %w", err)
	}
	return row.TopicID, true, nil
}

// GetByArticleID 根据条目ID查找
func (s *SQLStore) GetByArticleID(ctx context.Context, articleID string) (*Article, error) {
	var row link.ArticleLink
	err := s.db.WithContext(ctx).Where("article_id = ?", articleID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Article{
		ID:        row.ArticleID,
		TopicID:   row.TopicID,
		URL:       row.URL,
		Timestamp: row.LinkedAt,
	}, nil
}

// GetByTopicID 根据话题ID查找
func (s *SQLStore) GetByTopicID(ctx context.Context, topicID int) (*TopicArticle, error) {
	var row link.TopicArticle
	err := s.db.WithContext(ctx).Where("topic_id = ?", topicID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &TopicArticle{
		TopicID:   row.TopicID,
		ArticleID: row.ArticleID,
		URL:       row.URL,
	}, nil
}

// Ping 检查数据库连接
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
