package topic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/forum"
	"terminal-terrace/atlas-forum/internal/metrics"
)

var (
	ErrMissingFields   = errors.New("缺少必填字段 title、id 或 url")
	ErrInvalidTags     = errors.New("tags 不是合法的 JSON 字符串数组")
	ErrAuthRequired    = errors.New("需要登录")
	ErrTopicNotCreated = errors.New("论坛没有返回话题ID")
)

// 作者策略
const (
	AuthorBot  = "bot"
	AuthorUser = "user"
)

// ForumClient 创建话题所需的论坛接口
type ForumClient interface {
	CreateTopic(ctx context.Context, req forum.TopicRequest) (*forum.Topic, error)
	SetTopicField(ctx context.Context, tid int, field, value string) error
	ChildCategories(ctx context.Context, parentCID int) ([]forum.Category, error)
	CreateCategory(ctx context.Context, name string, parentCID int) (*forum.Category, error)
}

// BotAuthor 机器人作者，见 forum.BotIdentity
type BotAuthor interface {
	UID(ctx context.Context) (int, error)
}

// CardSource 按条目地址渲染卡片，见 card.Decorator
type CardSource interface {
	CardForURL(ctx context.Context, atlasURL string) (string, error)
}

// Options 话题服务配置
type Options struct {
	DefaultCategoryID int
	AuthorPolicy      string
	EmbedCard         bool
}

// TopicService 关联话题服务接口
type TopicService interface {
	// 创建话题并记录与目录条目的关联
	CreateLinkedTopic(ctx context.Context, actor Actor, req *CreateLinkedTopicRequest) (*CreateResult, error)
}

type topicService struct {
	forum ForumClient
	store association.Store
	bot   BotAuthor
	cards CardSource
	opts  Options
}

// NewTopicService 创建服务实例，bot 和 cards 可以为 nil
func NewTopicService(forum ForumClient, store association.Store, bot BotAuthor, cards CardSource, opts Options) TopicService {
	if opts.DefaultCategoryID <= 0 {
		opts.DefaultCategoryID = 81
	}
	if opts.AuthorPolicy == "" {
		opts.AuthorPolicy = AuthorBot
	}
	return &topicService{
		forum: forum,
		store: store,
		bot:   bot,
		cards: cards,
		opts:  opts,
	}
}

// CreateLinkedTopic 创建关联话题
//
// 同一个条目ID重复调用会创建多个话题，关联记录以最后一次为准。
func (s *topicService) CreateLinkedTopic(ctx context.Context, actor Actor, req *CreateLinkedTopicRequest) (*CreateResult, error) {
	// 1. 参数校验先于登录检查
	if req == nil || req.Title == "" || req.ID == "" || req.URL == "" {
		metrics.LinkedTopicsCreated.WithLabelValues("invalid").Inc()
		return nil, ErrMissingFields
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		metrics.LinkedTopicsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if !actor.IsAuthenticated() {
		metrics.LinkedTopicsCreated.WithLabelValues("unauthenticated").Inc()
		return nil, ErrAuthRequired
	}

	log.Printf("[topic] 创建关联话题 title=%q id=%s url=%s slug=%q", req.Title, req.ID, req.URL, req.Slug)

	// 2. 版块
	cid := s.resolveCategory(ctx, req)

	// 3. 作者
	uid := s.resolveAuthor(ctx, actor)

	// 4. 内容
	content, embedded := s.buildContent(ctx, req)

	// 5. 创建话题
	created, err := s.forum.CreateTopic(ctx, forum.TopicRequest{
		UID:       uid,
		CID:       cid,
		Title:     req.Title,
		Content:   content,
		Tags:      tags,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		metrics.LinkedTopicsCreated.WithLabelValues("forum_error").Inc()
		if errors.Is(err, forum.ErrNoTopicID) {
			return nil, ErrTopicNotCreated
		}
		return nil, fmt.Errorf("创建话题失败: %w", err)
	}
	tid := created.TID

	result := &CreateResult{
		TopicID:      tid,
		CategoryID:   cid,
		AuthorUID:    uid,
		CardEmbedded: embedded,
		RedirectPath: "/topic/" + strconv.Itoa(tid),
	}

	// 6. 自定义 slug，失败不影响创建结果
	if req.Slug != "" {
		slug := fmt.Sprintf("%d/%s", tid, req.Slug)
		if err := s.forum.SetTopicField(ctx, tid, "slug", slug); err != nil {
			log.Printf("[topic] 设置话题 %d 的 slug 失败: %v", tid, err)
		} else {
			result.Slug = slug
		}
	}

	// 7. 关联记录
	if err := s.store.Put(ctx, req.ID, tid, req.URL); err != nil {
		metrics.LinkedTopicsCreated.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("保存话题 %d 的关联失败: %w", tid, err)
	}

	log.Printf("[topic] 话题 %d 已创建并关联条目 %s", tid, req.ID)
	metrics.LinkedTopicsCreated.WithLabelValues("created").Inc()
	return result, nil
}

// resolveCategory 解析目标版块
// 指定了子版块名称时在父版块下按名称（区分大小写）查找，不存在则创建，失败回退到父版块
func (s *topicService) resolveCategory(ctx context.Context, req *CreateLinkedTopicRequest) int {
	parent, err := strconv.Atoi(strings.TrimSpace(string(req.CID)))
	if err != nil || parent <= 0 {
		parent = s.opts.DefaultCategoryID
	}
	if req.Category == "" {
		return parent
	}

	children, err := s.forum.ChildCategories(ctx, parent)
	if err != nil {
		log.Printf("[topic] 读取版块 %d 的子版块失败，使用父版块: %v", parent, err)
		return parent
	}
	for _, child := range children {
		if child.Name == req.Category {
			return child.CID
		}
	}

	created, err := s.forum.CreateCategory(ctx, req.Category, parent)
	if err != nil {
		log.Printf("[topic] 创建子版块 %q 失败，使用父版块 %d: %v", req.Category, parent, err)
		return parent
	}
	return created.CID
}

// resolveAuthor 按作者策略决定发帖人，机器人账号不可用时回退到当前用户
func (s *topicService) resolveAuthor(ctx context.Context, actor Actor) int {
	if s.opts.AuthorPolicy != AuthorBot || s.bot == nil {
		return actor.UID
	}
	uid, err := s.bot.UID(ctx)
	if err != nil {
		log.Printf("[topic] 机器人账号不可用，改用用户 %d 发帖: %v", actor.UID, err)
		return actor.UID
	}
	return uid
}

// buildContent 生成首帖内容，开启 EmbedCard 时在前面插入物种卡片
func (s *topicService) buildContent(ctx context.Context, req *CreateLinkedTopicRequest) (string, bool) {
	content := req.Markdown
	if content == "" {
		content = DefaultContent(req.Title, req.URL)
	}

	if !s.opts.EmbedCard || s.cards == nil {
		return content, false
	}

	html, err := s.cards.CardForURL(ctx, req.URL)
	if err != nil {
		log.Printf("[topic] 渲染卡片失败，创建不带卡片的话题: %v", err)
		metrics.CardsRendered.WithLabelValues("create", "fetch_error").Inc()
		return content, false
	}
	metrics.CardsRendered.WithLabelValues("create", "embedded").Inc()
	return card.Prepend(content, html), true
}

// DefaultContent 没有正文时的默认首帖
func DefaultContent(title, atlasURL string) string {
	return fmt.Sprintf("Discussion about %s\n\n[View on Seed Atlas](%s)", title, atlasURL)
}

func parseTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTags, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
