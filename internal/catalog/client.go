package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"terminal-terrace/atlas-forum/internal/metrics"
)

var (
	ErrSpeciesNotFound = errors.New("目录中没有匹配的条目")
	ErrNoSlug          = errors.New("地址中没有可解析的 slug")
	ErrUpstream        = errors.New("目录服务请求失败")
)

// speciesFields 渲染卡片所需的字段，包括关联表
const speciesFields = "*,Genus.Genus,Category.Name,Gallery.directus_files_id"

// Options 目录客户端配置
type Options struct {
	BaseURL       string
	Token         string
	Collection    string
	Timeout       time.Duration
	RatePerSecond float64 // 0 表示不限速
	Burst         int
	SlugPrefix    string
	HTTPClient    *http.Client
}

// Client 目录服务 REST 客户端，使用 bearer token 认证，不做重试
type Client struct {
	baseURL    string
	collection string
	slugPrefix string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient 创建目录客户端
func NewClient(opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: opts.Timeout}
	}

	httpClient := base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.Token,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = base.Timeout
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	collection := opts.Collection
	if collection == "" {
		collection = "species"
	}
	slugPrefix := opts.SlugPrefix
	if slugPrefix == "" {
		slugPrefix = "/variety/"
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		collection: collection,
		slugPrefix: slugPrefix,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// Resolve 根据条目地址找到对应的物种
// slug 末尾有 SKU 时先按 SKU 精确查询，没有 SKU 或 SKU 没有命中时退回全文检索
func (c *Client) Resolve(ctx context.Context, atlasURL string) (*Species, error) {
	slug, ok := SlugFromURL(atlasURL, c.slugPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSlug, atlasURL)
	}

	query := ParseSlug(slug)
	if query.SKU != "" {
		species, err := c.FindBySKU(ctx, query.SKU)
		if err == nil {
			return species, nil
		}
		if !errors.Is(err, ErrSpeciesNotFound) {
			return nil, err
		}
	}

	if query.Search == "" {
		return nil, ErrSpeciesNotFound
	}
	return c.Search(ctx, query.Search)
}

// FindBySKU 按 SKU 精确查询，最多返回一条
func (c *Client) FindBySKU(ctx context.Context, sku string) (*Species, error) {
	params := url.Values{}
	params.Set("filter[SKU][_eq]", sku)
	return c.first(ctx, "sku", params)
}

// Search 全文检索，取目录服务相关度排序的第一条
func (c *Client) Search(ctx context.Context, term string) (*Species, error) {
	params := url.Values{}
	params.Set("search", term)
	return c.first(ctx, "search", params)
}

func (c *Client) first(ctx context.Context, mode string, params url.Values) (*Species, error) {
	params.Set("limit", "1")
	params.Set("fields", speciesFields)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("等待目录请求配额: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/items/%s", c.baseURL, url.PathEscape(c.collection))
	fullURL := endpoint + "?" + params.Encode()

	start := time.Now()
	log.Printf("[catalog] GET %s mode=%s", endpoint, mode)
	defer func() {
		metrics.CatalogRequestDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(mode, "error").Inc()
		log.Printf("[catalog] %s error: %v", mode, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CatalogRequests.WithLabelValues(mode, "status_"+strconv.Itoa(resp.StatusCode)).Inc()
		log.Printf("[catalog] %s status=%d", mode, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var page itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		metrics.CatalogRequests.WithLabelValues(mode, "decode_error").Inc()
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	log.Printf("[catalog] response status=%d duration=%dms results=%d",
		resp.StatusCode, time.Since(start).Milliseconds(), len(page.Data))

	if len(page.Data) == 0 {
		metrics.CatalogRequests.WithLabelValues(mode, "miss").Inc()
		return nil, ErrSpeciesNotFound
	}
	metrics.CatalogRequests.WithLabelValues(mode, "hit").Inc()
	return &page.Data[0], nil
}

// ImageURL 用图片代理模板生成图片地址，模板支持 {id} {width} {height}
func ImageURL(template, fileID string, width, height int) string {
	if template == "" || fileID == "" {
		return ""
	}
	return strings.NewReplacer(
		"{id}", url.PathEscape(fileID),
		"{width}", strconv.Itoa(width),
		"{height}", strconv.Itoa(height),
	).Replace(template)
}
