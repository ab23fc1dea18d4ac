// Package article 目录前端和话题页使用的查询接口
package article

import (
	"context"
	"errors"
	"fmt"
	"log"

	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/metrics"
)

// SpeciesSource 话题关联的物种数据，见 card.Decorator
type SpeciesSource interface {
	SpeciesForTopic(ctx context.Context, topicID int) (*card.SpeciesView, error)
}

// TopicLookup topic-by-url 的查询结果
type TopicLookup struct {
	Found bool   `json:"found"`
	TID   int    `json:"tid,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ArticleStatus check-article 的查询结果
type ArticleStatus struct {
	Found     bool                      `json:"found"`
	ArticleID string                    `json:"articleId,omitempty"`
	Article   *association.Article      `json:"article,omitempty"`
	Topic     *association.TopicArticle `json:"topic,omitempty"`
}

// ArticleService 关联查询服务接口
type ArticleService interface {
	// 按条目地址查找话题，传入 articleID 且找到时补写关联
	TopicByURL(ctx context.Context, url, articleID string) (*TopicLookup, error)

	// 查看条目的关联记录
	CheckArticle(ctx context.Context, articleID string) (*ArticleStatus, error)

	// 话题关联的物种数据
	SpeciesForTopic(ctx context.Context, topicID int) (*card.SpeciesView, error)
}

type articleService struct {
	store   association.Store
	species SpeciesSource
}

// NewArticleService 创建服务实例
func NewArticleService(store association.Store, species SpeciesSource) ArticleService {
	return &articleService{
		store:   store,
		species: species,
	}
}

// TopicByURL 按条目地址查找话题
// 条目已有指向同一地址的关联时直接使用，重新创建过的话题不会被旧话题覆盖
func (s *articleService) TopicByURL(ctx context.Context, url, articleID string) (*TopicLookup, error) {
	if articleID != "" {
		article, err := s.store.GetByArticleID(ctx, articleID)
		switch {
		case err == nil && article.URL == url:
			metrics.AssociationLookups.WithLabelValues("hit").Inc()
			return &TopicLookup{Found: true, TID: article.TopicID, URL: url}, nil
		case err != nil && !errors.Is(err, association.ErrNotFound):
			log.Printf("[article] 读取条目 %s 的关联失败，改为按地址查找: %v", articleID, err)
		}
	}

	tid, found, err := s.store.FindTopicByURL(ctx, url)
	if err != nil {
		metrics.AssociationLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("按地址查找话题失败: %w", err)
	}
	if !found {
		metrics.AssociationLookups.WithLabelValues("miss").Inc()
		return &TopicLookup{Found: false}, nil
	}
	metrics.AssociationLookups.WithLabelValues("hit").Inc()

	// 补写关联，失败只记录日志
	if articleID != "" {
		if err := s.store.Put(ctx, articleID, tid, url); err != nil {
			log.Printf("[article] 补写条目 %s -> 话题 %d 的关联失败: %v", articleID, tid, err)
		}
	}

	return &TopicLookup{Found: true, TID: tid, URL: url}, nil
}

// CheckArticle 查看条目的关联记录
func (s *articleService) CheckArticle(ctx context.Context, articleID string) (*ArticleStatus, error) {
	article, err := s.store.GetByArticleID(ctx, articleID)
	if err != nil {
		if errors.Is(err, association.ErrNotFound) {
			return &ArticleStatus{Found: false, ArticleID: articleID}, nil
		}
		return nil, err
	}

	status := &ArticleStatus{Found: true, ArticleID: articleID, Article: article}
	topic, err := s.store.GetByTopicID(ctx, article.TopicID)
	switch {
	case err == nil:
		status.Topic = topic
	case !errors.Is(err, association.ErrNotFound):
		return nil, err
	}
	return status, nil
}

// SpeciesForTopic 话题关联的物种数据
func (s *articleService) SpeciesForTopic(ctx context.Context, topicID int) (*card.SpeciesView, error) {
	view, err := s.species.SpeciesForTopic(ctx, topicID)
	if err != nil {
		metrics.CardsRendered.WithLabelValues("view", "error").Inc()
		return nil, err
	}
	metrics.CardsRendered.WithLabelValues("view", "served").Inc()
	return view, nil
}
