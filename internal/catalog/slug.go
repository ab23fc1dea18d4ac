package catalog

import (
	"net/url"
	"regexp"
	"strings"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// SlugQuery 从条目 slug 推出的查询条件
type SlugQuery struct {
	SKU    string // 末尾的全大写字母数字片段
	Search string // 其余片段用空格连接后的全文检索词
}

// ParseSlug 按 "-" 拆分 slug，末尾片段全部为大写字母或数字时视为 SKU
//
//	"brandywine-BR10"  -> {SKU: "BR10", Search: "brandywine"}
//	"red-russian-kale" -> {Search: "red russian kale"}
func ParseSlug(slug string) SlugQuery {
	tokens := make([]string, 0, 4)
	for _, token := range strings.Split(slug, "-") {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return SlugQuery{}
	}

	last := tokens[len(tokens)-1]
	if skuPattern.MatchString(last) {
		return SlugQuery{
			SKU:    last,
			Search: strings.Join(tokens[:len(tokens)-1], " "),
		}
	}
	return SlugQuery{Search: strings.Join(tokens, " ")}
}

// SlugFromURL 取出 prefix 之后的第一个路径片段
//
//	SlugFromURL("https://atlas/variety/tomato-x-TX1?ref=forum", "/variety/") -> "tomato-x-TX1", true
func SlugFromURL(rawURL, prefix string) (string, bool) {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		path = parsed.Path
	}

	idx := strings.Index(path, prefix)
	if idx < 0 {
		return "", false
	}
	rest := path[idx+len(prefix):]
	if end := strings.Index(rest, "/"); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
