package association

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 直接读写论坛 redis 中的关联键
type RedisStore struct {
	client    redis.UniversalClient
	scanBatch int64
	now       func() time.Time
}

// NewRedisStore 创建 redis 关联存储，scanBatch 为按 url 查找时每批读取的话题数
func NewRedisStore(client redis.UniversalClient, scanBatch int) *RedisStore {
	if scanBatch <= 0 {
		scanBatch = 100
	}
	return &RedisStore{
		client:    client,
		scanBatch: int64(scanBatch),
		now:       time.Now,
	}
}

// Put 在一个 MULTI/EXEC 事务中写入三条记录
func (s *RedisStore) Put(ctx context.Context, articleID string, topicID int, url string) error {
	if err := validate(articleID, topicID, url); err != nil {
		return err
	}

	tid := formatTopicID(topicID)
	timestamp := s.now().UnixMilli()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, ArticleKey(articleID), "tid", tid, "url", url, "timestamp", timestamp)
		pipe.HSet(ctx, TopicArticleKey(tid), "id", articleID, "url", url)
		pipe.HSet(ctx, LegacyHashKey, articleID, tid)
		return nil
	})
	if err != nil {
		return fmt.Errorf("写入关联 article:%s -> topic:%s 失败: %w", articleID, tid, err)
	}
	return nil
}

// FindTopicByURL 逐批扫描论坛全部话题，比较每个话题关联的 url
// 复杂度与话题总数成正比，redis 没有按 url 的二级索引
func (s *RedisStore) FindTopicByURL(ctx context.Context, url string) (int, bool, error) {
	if url == "" {
		return 0, false, nil
	}

	var start int64
	for {
		tids, err := s.client.ZRange(ctx, TopicsIndexKey, start, start+s.scanBatch-1).Result()
		if err != nil {
			return 0, false, fmt.Errorf("读取话题列表失败: %w", err)
		}
		if len(tids) == 0 {
			return 0, false, nil
		}

		cmds, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, tid := range tids {
				pipe.HGet(ctx, TopicArticleKey(tid), "url")
			}
			return nil
		})
		// 没有关联的话题返回 redis.Nil，属于正常情况
		if err != nil && !errors.Is(err, redis.Nil) {
			return 0, false, fmt.Errorf("读取话题关联失败: %w", err)
		}

		// 管道会把第一个 redis.Nil 复制到后面所有命令上，这里只比较取到的值
		for i, cmd := range cmds {
			if cmd.(*redis.StringCmd).Val() != url {
				continue
			}
			topicID, convErr := strconv.Atoi(tids[i])
			if convErr != nil {
				log.Printf("[association] 忽略无法解析的话题ID %q", tids[i])
				continue
			}
			return topicID, true, nil
		}

		if int64(len(tids)) < s.scanBatch {
			return 0, false, nil
		}
		start += s.scanBatch
	}
}

// GetByArticleID 读取 article:{id}
func (s *RedisStore) GetByArticleID(ctx context.Context, articleID string) (*Article, error) {
	fields, err := s.client.HGetAll(ctx, ArticleKey(articleID)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取 article:%s 失败: %w", articleID, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	topicID, err := strconv.Atoi(fields["tid"])
	if err != nil {
		return nil, fmt.Errorf("article:%s 的 tid 无效: %w", articleID, ErrInvalidRecord)
	}

	article := &Article{
		ID:      articleID,
		TopicID: topicID,
		URL:     fields["url"],
	}
	if ms, err := strconv.ParseInt(fields["timestamp"], 10, 64); err == nil {
		article.Timestamp = time.UnixMilli(ms)
	}
	return article, nil
}

// GetByTopicID 读取 topic:{tid}:article
func (s *RedisStore) GetByTopicID(ctx context.Context, topicID int) (*TopicArticle, error) {
	tid := formatTopicID(topicID)
	fields, err := s.client.HGetAll(ctx, TopicArticleKey(tid)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取 topic:%s:article 失败: %w", tid, err)
	}
	if len(fields) == 0 || fields["id"] == "" {
		return nil, ErrNotFound
	}

	return &TopicArticle{
		TopicID:   topicID,
		ArticleID: fields["id"],
		URL:       fields["url"],
	}, nil
}

// Ping 检查 redis 连接
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
