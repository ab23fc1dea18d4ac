package forum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   map[string]string{"code": "ok", "message": "OK"},
		"response": response,
	})
}

func TestCreateTopic(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/topics", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, map[string]any{"tid": 42, "cid": 81, "slug": "42/kale"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/", APIToken: "master"})
	topic, err := client.CreateTopic(context.Background(), TopicRequest{
		UID: 7, CID: 81, Title: "Kale", Content: "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, 42, topic.TID)
	assert.Equal(t, "42/kale", topic.Slug)
	assert.Equal(t, "Bearer master", auth)
	assert.Equal(t, float64(7), got["_uid"])
	assert.Equal(t, float64(81), got["cid"])
	assert.Equal(t, []any{}, got["tags"])
}

func TestCreateTopicErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "没有 tid",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, map[string]any{})
			},
			wantErr: ErrNoTopicID,
		},
		{
			name: "服务端错误",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: ErrForumAPI,
		},
		{
			name: "无法解析",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			wantErr: ErrForumAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(Options{BaseURL: srv.URL}).CreateTopic(context.Background(), TopicRequest{Title: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetTopicField(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v3/topics/42/fields", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(w, nil)
	}))
	defer srv.Close()

	err := NewClient(Options{BaseURL: srv.URL}).SetTopicField(context.Background(), 42, "slug", "42/kale")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"slug": "42/kale"}, body)
}

func TestCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v3/categories/81/children":
			writeEnvelope(w, []Category{{CID: 90, Name: "Brassica", ParentCID: 81}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v3/categories":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeEnvelope(w, Category{CID: 91, Name: body["name"].(string), ParentCID: 81})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	ctx := context.Background()

	children, err := client.ChildCategories(ctx, 81)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Brassica", children[0].Name)

	created, err := client.CreateCategory(ctx, "Allium", 81)
	require.NoError(t, err)
	assert.Equal(t, 91, created.CID)
	assert.Equal(t, "Allium", created.Name)
}

func TestUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/user/username/seed-atlas-bot":
			_ = json.NewEncoder(w).Encode(User{UID: 5, Username: "seed-atlas-bot"})
		case r.URL.Path == "/api/v3/users":
			writeEnvelope(w, map[string]any{"uid": 6})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL})
	ctx := context.Background()

	user, err := client.UserByUsername(ctx, "seed-atlas-bot")
	require.NoError(t, err)
	assert.Equal(t, 5, user.UID)

	_, err = client.UserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	created, err := client.CreateUser(ctx, "new-bot", "secret")
	require.NoError(t, err)
	assert.Equal(t, 6, created.UID)
	assert.Equal(t, "new-bot", created.Username)
}

type fakeUsers struct {
	mu       sync.Mutex
	existing map[string]int
	lookups  int
	created  []string
	failWith error
}

func (f *fakeUsers) UserByUsername(_ context.Context, username string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if uid, ok := f.existing[username]; ok {
		return &User{UID: uid, Username: username}, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, username, password string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if password == "" {
		return nil, errors.New("empty password")
	}
	f.created = append(f.created, username)
	uid := 100 + len(f.created)
	f.existing[username] = uid
	return &User{UID: uid, Username: username}, nil
}

func TestBotIdentity(t *testing.T) {
	t.Run("已有账号", func(t *testing.T) {
		users := &fakeUsers{existing: map[string]int{"bot": 3}}
		bot := NewBotIdentity(users, "bot")

		uid, err := bot.UID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, uid)
		assert.Empty(t, users.created)
	})

	t.Run("不存在时创建并缓存", func(t *testing.T) {
		users := &fakeUsers{existing: map[string]int{}}
		bot := NewBotIdentity(users, "bot")

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				uid, err := bot.UID(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, 101, uid)
			}()
		}
		wg.Wait()

		assert.Equal(t, []string{"bot"}, users.created)
		assert.Equal(t, 1, users.lookups)
	})

	t.Run("Reset 后重新解析", func(t *testing.T) {
		users := &fakeUsers{existing: map[string]int{"bot": 3}}
		bot := NewBotIdentity(users, "bot")

		_, err := bot.UID(context.Background())
		require.NoError(t, err)
		bot.Reset()
		_, err = bot.UID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, users.lookups)
	})

	t.Run("查询失败", func(t *testing.T) {
		users := &fakeUsers{existing: map[string]int{}, failWith: ErrForumAPI}
		bot := NewBotIdentity(users, "bot")

		_, err := bot.UID(context.Background())
		assert.ErrorIs(t, err, ErrForumAPI)
	})
}
