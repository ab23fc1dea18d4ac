// Package forum 论坛写接口客户端
package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var (
	ErrUserNotFound = errors.New("论坛用户不存在")
	ErrNoTopicID    = errors.New("论坛没有返回话题ID")
	ErrForumAPI     = errors.New("论坛接口请求失败")
)

// Options 论坛客户端配置
type Options struct {
	BaseURL    string
	APIToken   string // master token，允许通过 _uid 指定发帖人
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client 论坛 REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建论坛客户端
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}

	httpClient := base
	if opts.APIToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.APIToken,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = base.Timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateTopic POST /api/v3/topics
func (c *Client) CreateTopic(ctx context.Context, req TopicRequest) (*Topic, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	var topic Topic
	if err := c.do(ctx, http.MethodPost, "/api/v3/topics", req, &topic); err != nil {
		return nil, err
	}
	if topic.TID <= 0 {
		return nil, ErrNoTopicID
	}
	return &topic, nil
}

// SetTopicField PUT /api/v3/topics/{tid}/fields
func (c *Client) SetTopicField(ctx context.Context, tid int, field, value string) error {
	path := "/api/v3/topics/" + strconv.Itoa(tid) + "/fields"
	return c.do(ctx, http.MethodPut, path, map[string]string{field: value}, nil)
}

// ChildCategories GET /api/v3/categories/{cid}/children
func (c *Client) ChildCategories(ctx context.Context, parentCID int) ([]Category, error) {
	var children []Category
	path := "/api/v3/categories/" + strconv.Itoa(parentCID) + "/children"
	if err := c.do(ctx, http.MethodGet, path, nil, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// CreateCategory POST /api/v3/categories
func (c *Client) CreateCategory(ctx context.Context, name string, parentCID int) (*Category, error) {
	body := map[string]any{"name": name, "parentCid": parentCID}
	var category Category
	if err := c.do(ctx, http.MethodPost, "/api/v3/categories", body, &category); err != nil {
		return nil, err
	}
	if category.CID <= 0 {
		return nil, fmt.Errorf("%w: 创建版块 %q 没有返回 cid", ErrForumAPI, name)
	}
	return &category, nil
}

// UserByUsername GET /api/user/username/{username}
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/user/username/"+url.PathEscape(username), nil, &user)
	if err != nil {
		return nil, err
	}
	if user.UID <= 0 {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// CreateUser POST /api/v3/users
func (c *Client) CreateUser(ctx context.Context, username, password string) (*User, error) {
	body := map[string]string{"username": username, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/v3/users", body, &user); err != nil {
		return nil, err
	}
	if user.UID <= 0 {
		return nil, fmt.Errorf("%w: 创建用户 %q 没有返回 uid", ErrForumAPI, username)
	}
	if user.Username == "" {
		user.Username = username
	}
	return &user, nil
}

// do 发送请求并解析响应
// 写接口 /api/v3 的响应包在 {status, response} 中，读接口直接返回对象
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[forum] %s %s error: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrForumAPI, err)
	}
	defer resp.Body.Close()

	log.Printf("[forum] %s %s status=%d duration=%dms", method, path, resp.StatusCode, time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/api/user/") {
		return ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s status %d: %s", ErrForumAPI, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}

	if strings.HasPrefix(path, "/api/v3/") {
		env := envelope[json.RawMessage]{}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("%w: decode: %v", ErrForumAPI, err)
		}
		if len(env.Response) == 0 || string(env.Response) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Response, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrForumAPI, err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrForumAPI, err)
	}
	return nil
}
