package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/atlas-forum/config"
	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/testutils"
	"terminal-terrace/atlas-forum/packages/authsdk"
)

const (
	jwtSecret = "route-test-secret"
	kaleURL   = "https://atlas.example/variety/red-russian-kale-RRK1"
)

// fakeForumServer 模拟论坛写接口，发帖时像论坛一样登记 topics:tid
func fakeForumServer(t *testing.T, client *redis.Client) (*httptest.Server, *sync.Map) {
	t.Helper()
	contents := &sync.Map{}
	var mu sync.Mutex
	nextTID := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/username/seed-atlas-bot":
			_, _ = w.Write([]byte(`{"uid":2,"username":"seed-atlas-bot"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v3/topics":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)

			mu.Lock()
			nextTID++
			tid := nextTID
			mu.Unlock()

			contents.Store(tid, body["content"])
			client.ZAdd(r.Context(), testutils.TopicsIndexKey, redis.Z{Score: float64(tid), Member: strconv.Itoa(tid)})
			_, _ = w.Write([]byte(`{"status":{"code":"ok"},"response":{"tid":` + strconv.Itoa(tid) + `}}`))
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/fields"):
			_, _ = w.Write([]byte(`{"status":{"code":"ok"},"response":{}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, contents
}

func fakeCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items/species" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("filter[SKU][_eq]") == "RRK1" {
			_, _ = w.Write([]byte(`{"data":[{"Common_Name":"Red Russian Kale","Genus":{"Genus":"Brassica"},"Species":"napus","SKU":"RRK1"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupApp(t *testing.T) (*gin.Engine, association.Store, *sync.Map) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, _ := testutils.SetupTestRedis(t)
	store := association.NewRedisStore(client, 100)
	forumSrv, contents := fakeForumServer(t, client)
	catalogSrv := fakeCatalogServer(t)

	conf := &config.AppConfig{}
	conf.JWT.Secret = jwtSecret
	conf.Forum.BaseURL = forumSrv.URL
	conf.Catalog.BaseURL = catalogSrv.URL
	conf.Card.EmbedOnCreate = true
	conf.CORS.AtlasOrigin = "https://atlas.example"
	conf.Hooks.Token = "hook-token"
	conf.ApplyDefaults()

	return SetupRouter(conf, store), store, contents
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLinkedTopicFlow(t *testing.T) {
	r, store, contents := setupApp(t)

	// 1. 创建话题
	form := url.Values{
		"title": {"Red Russian Kale"},
		"id":    {"kale"},
		"url":   {kaleURL},
		"slug":  {"red-russian-kale-RRK1"},
	}
	req := httptest.NewRequest(http.MethodPost, "/create-linked-topic", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: authsdk.AccessTokenCookie, Value: testutils.SignedToken(t, jwtSecret, 7, "alice")})
	w := do(r, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/topic/1", w.Header().Get("Location"))

	stored, ok := contents.Load(1)
	require.True(t, ok)
	firstPost := stored.(string)
	assert.True(t, card.Contains(firstPost))

	link, err := store.GetByTopicID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "kale", link.ArticleID)

	// 2. 目录前端按地址查找
	w = do(r, httptest.NewRequest(http.MethodGet, "/api/topic-by-url?url="+url.QueryEscape(kaleURL), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"found":true,"tid":1,"url":"`+kaleURL+`"}`, w.Body.String())

	// 3. 话题页取物种数据
	w = do(r, httptest.NewRequest(http.MethodGet, "/api/species-for-topic/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Common_Name":"Red Russian Kale"`)

	// 4. 渲染钩子刷新卡片
	stale, _ := card.Replace(firstPost, card.StartMarker+"stale"+card.EndMarker)
	body, _ := json.Marshal(map[string]any{
		"tid":   1,
		"posts": []map[string]any{{"pid": 1, "index": 0, "content": stale}},
	})
	req = httptest.NewRequest(http.MethodPost, "/hooks/topic/render", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hook-Token", "hook-token")
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "stale")
	assert.Contains(t, w.Body.String(), "Red Russian Kale")
}

func TestCreateLinkedTopicMissingURL(t *testing.T) {
	r, store, contents := setupApp(t)

	form := url.Values{"title": {"Tomato X"}, "id": {"42"}}
	req := httptest.NewRequest(http.MethodPost, "/create-linked-topic", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: authsdk.AccessTokenCookie, Value: testutils.SignedToken(t, jwtSecret, 7, "alice")})
	w := do(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, ok := contents.Load(1)
	assert.False(t, ok)
	_, err := store.GetByArticleID(context.Background(), "42")
	assert.ErrorIs(t, err, association.ErrNotFound)
}

func TestOpsEndpoints(t *testing.T) {
	r, _, _ := setupApp(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "atlas_forum_http_requests_total")

	w = do(r, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/create-linked-topic")
}
