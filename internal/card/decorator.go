package card

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/catalog"
	"terminal-terrace/atlas-forum/internal/metrics"
)

var ErrNoCard = errors.New("话题没有关联的物种")

// SpeciesResolver 根据条目地址取最新的目录数据
type SpeciesResolver interface {
	Resolve(ctx context.Context, atlasURL string) (*catalog.Species, error)
}

// SpeciesView 话题页客户端渲染卡片所需的数据
type SpeciesView struct {
	Species  *catalog.Species `json:"species"`
	AtlasURL string           `json:"atlasUrl"`
}

// Decorator 把关联存储、目录客户端和渲染器串起来
type Decorator struct {
	store    association.Store
	resolver SpeciesResolver
	renderer *Renderer
}

func NewDecorator(store association.Store, resolver SpeciesResolver, renderer *Renderer) *Decorator {
	return &Decorator{
		store:    store,
		resolver: resolver,
		renderer: renderer,
	}
}

// SpeciesForTopic 查找话题关联的条目并取回目录数据
// 没有关联时返回 ErrNoCard
func (d *Decorator) SpeciesForTopic(ctx context.Context, topicID int) (*SpeciesView, error) {
	link, err := d.store.GetByTopicID(ctx, topicID)
	if err != nil {
		if errors.Is(err, association.ErrNotFound) {
			return nil, ErrNoCard
		}
		return nil, err
	}

	species, err := d.resolver.Resolve(ctx, link.URL)
	if err != nil {
		return nil, fmt.Errorf("获取话题 %d 的物种失败: %w", topicID, err)
	}
	return &SpeciesView{Species: species, AtlasURL: link.URL}, nil
}

// CardForURL 创建话题时按条目地址渲染卡片
func (d *Decorator) CardForURL(ctx context.Context, atlasURL string) (string, error) {
	species, err := d.resolver.Resolve(ctx, atlasURL)
	if err != nil {
		return "", err
	}
	return d.renderer.Render(species, atlasURL), nil
}

// DecoratePosts 渲染钩子：刷新首帖中已有的卡片
// 没有关联、首帖中没有卡片、或者任何查询失败时都原样放行，返回 false
func (d *Decorator) DecoratePosts(ctx context.Context, topicID int, posts []Post) bool {
	first := firstPost(posts)
	if first == nil {
		return false
	}

	link, err := d.store.GetByTopicID(ctx, topicID)
	if err != nil {
		if !errors.Is(err, association.ErrNotFound) {
			log.Printf("[card] 读取话题 %d 的关联失败: %v", topicID, err)
			metrics.CardsRendered.WithLabelValues("hook", "store_error").Inc()
		}
		return false
	}

	content := first.Content()
	if !Contains(content) {
		metrics.CardsRendered.WithLabelValues("hook", "no_marker").Inc()
		return false
	}

	species, err := d.resolver.Resolve(ctx, link.URL)
	if err != nil {
		log.Printf("[card] 话题 %d 获取物种失败，保留原卡片: %v", topicID, err)
		metrics.CardsRendered.WithLabelValues("hook", "fetch_error").Inc()
		return false
	}

	updated, ok := Replace(content, d.renderer.Render(species, link.URL))
	if !ok {
		return false
	}
	first.SetContent(updated)
	metrics.CardsRendered.WithLabelValues("hook", "refreshed").Inc()
	return true
}

// Post 钩子载荷中的一个帖子，只读写 index 和 content，其余字段原样保留
type Post map[string]any

func (p Post) Content() string {
	s, _ := p["content"].(string)
	return s
}

func (p Post) SetContent(content string) {
	p["content"] = content
}

// Index 帖子在话题中的序号，缺失时排在最后
func (p Post) Index() int {
	switch v := p["index"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return math.MaxInt
	}
}

// firstPost 序号最小的帖子，序号相同时取靠前的
func firstPost(posts []Post) Post {
	var first Post
	best := math.MaxInt
	for _, p := range posts {
		if p == nil {
			continue
		}
		if first == nil || p.Index() < best {
			first, best = p, p.Index()
		}
	}
	return first
}
