// Package card 渲染并刷新话题首帖中的物种卡片
package card

import (
	"html"
	"strings"

	"terminal-terrace/atlas-forum/internal/catalog"
)

// 卡片的结构化标记，只用于识别卡片，与样式无关
const (
	StartMarker = "<!-- species-card:start -->"
	EndMarker   = "<!-- species-card:end -->"
	MarkerAttr  = `data-species-card="1"`
)

const (
	unknownSpecies = "Unknown Species"
	ellipsis       = "..."
	ctaLabel       = "📖 View Full Details on Seed Atlas →"
)

// Options 渲染配置
type Options struct {
	DescriptionLimit int  // 描述超过该字符数时截断并追加省略号
	EscapeHTML       bool // 默认关闭，保持原有的不转义输出
	ImageTemplate    string
	ImageWidth       int
	ImageHeight      int
}

// Renderer 把目录条目渲染成可以直接插入帖子的 HTML 片段
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.DescriptionLimit <= 0 {
		opts.DescriptionLimit = 300
	}
	return &Renderer{opts: opts}
}

// Render 生成完整的卡片，首尾带 StartMarker / EndMarker
func (r *Renderer) Render(species *catalog.Species, atlasURL string) string {
	esc := r.escaper()

	var b strings.Builder
	b.WriteString(StartMarker)
	b.WriteString(`<div class="species-card" ` + MarkerAttr + ` style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); border-radius: 12px; padding: 20px; margin-bottom: 20px; color: white; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">`)

	if src := r.imageURL(species); src != "" {
		b.WriteString(`<img class="species-card-image" src="` + esc(src) + `" alt="" style="width: 100%; max-height: 240px; object-fit: cover; border-radius: 8px; margin-bottom: 12px;">`)
	}

	b.WriteString(`<div style="display: flex; align-items: center; gap: 12px; margin-bottom: 12px;">`)
	b.WriteString(`<h3 style="margin: 0; font-size: 1.4rem; font-weight: 600;">` + esc(commonName(species)) + `</h3>`)
	if species.Category != nil && species.Category.Name != "" {
		b.WriteString(`<span class="species-card-badge" style="background: rgba(255,255,255,0.25); border-radius: 999px; padding: 2px 10px; font-size: 0.8rem;">` + esc(species.Category.Name) + `</span>`)
	}
	b.WriteString(`</div>`)

	if name := scientificName(species, esc); name != "" {
		b.WriteString(`<div style="font-size: 1.1rem; margin-bottom: 12px; opacity: 0.95;">` + name + `</div>`)
	}

	if species.CommunityDescription != "" {
		desc := truncate(species.CommunityDescription, r.opts.DescriptionLimit)
		b.WriteString(`<div style="font-size: 0.95rem; line-height: 1.6; margin-bottom: 12px; opacity: 0.9;">` + esc(desc) + `</div>`)
	}

	if ids := identifiers(species, esc); ids != "" {
		b.WriteString(`<div style="font-size: 0.85rem; opacity: 0.8; margin-bottom: 12px;">` + ids + `</div>`)
	}

	b.WriteString(`<a href="` + esc(atlasURL) + `" target="_blank" rel="noopener" style="display: inline-block; background: rgba(255,255,255,0.2); color: white; padding: 8px 16px; border-radius: 6px; text-decoration: none; font-weight: 500;">` + ctaLabel + `</a>`)
	b.WriteString(`</div>`)
	b.WriteString(EndMarker)
	return b.String()
}

func (r *Renderer) escaper() func(string) string {
	if r.opts.EscapeHTML {
		return html.EscapeString
	}
	return func(s string) string { return s }
}

func (r *Renderer) imageURL(species *catalog.Species) string {
	return catalog.ImageURL(r.opts.ImageTemplate, species.ImageID(), r.opts.ImageWidth, r.opts.ImageHeight)
}

func commonName(species *catalog.Species) string {
	if species.CommonName == "" {
		return unknownSpecies
	}
	return species.CommonName
}

// scientificName 属 种 subsp. 亚种 var. 变种 '品种群'，缺失的部分直接跳过
func scientificName(species *catalog.Species, esc func(string) string) string {
	parts := make([]string, 0, 5)
	if species.Genus != nil && species.Genus.Genus != "" {
		parts = append(parts, "<em>"+esc(species.Genus.Genus)+"</em>")
	}
	if species.Species != "" {
		parts = append(parts, "<em>"+esc(species.Species)+"</em>")
	}
	if species.Subspecies != "" {
		parts = append(parts, "subsp. <em>"+esc(species.Subspecies)+"</em>")
	}
	if species.Variety != "" {
		parts = append(parts, "var. <em>"+esc(species.Variety)+"</em>")
	}
	if species.CultivarGroup != "" {
		parts = append(parts, "'"+esc(species.CultivarGroup)+"'")
	}
	return strings.Join(parts, " ")
}

func identifiers(species *catalog.Species, esc func(string) string) string {
	ids := make([]string, 0, 2)
	if species.SKU != "" {
		ids = append(ids, "SKU: "+esc(species.SKU))
	}
	if species.PINumber != "" {
		ids = append(ids, "PI: "+esc(species.PINumber))
	}
	return strings.Join(ids, " • ")
}

// truncate 按字符数截断，超过 limit 时追加省略号
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + ellipsis
}
