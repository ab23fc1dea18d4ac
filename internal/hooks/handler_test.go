package hooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/atlas-forum/internal/association"
	"terminal-terrace/atlas-forum/internal/card"
	"terminal-terrace/atlas-forum/internal/catalog"
	"terminal-terrace/atlas-forum/internal/testutils"
)

const (
	hookToken = "hook-secret"
	kaleURL   = "https://atlas/variety/red-russian-kale"
)

type stubResolver struct {
	species *catalog.Species
	err     error
}

func (s *stubResolver) Resolve(context.Context, string) (*catalog.Species, error) {
	return s.species, s.err
}

func setupHooks(t *testing.T, resolver *stubResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, _ := testutils.SetupTestRedis(t)
	store := association.NewRedisStore(client, 100)
	require.NoError(t, store.Put(context.Background(), "kale", 5, kaleURL))

	decorator := card.NewDecorator(store, resolver, card.NewRenderer(card.Options{}))
	r := gin.New()
	SetupHookRoutes(r.Group(""), decorator, hookToken)
	return r
}

func render(t *testing.T, r *gin.Engine, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hooks/topic/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Hook-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const staleCard = card.StartMarker + "<div>old</div>" + card.EndMarker

func payload(tid any) string {
	b, _ := json.Marshal(map[string]any{
		"tid":   tid,
		"extra": "kept",
		"posts": []map[string]any{
			{"pid": 11, "index": 1, "content": staleCard},
			{"pid": 10, "index": 0, "content": "intro\n" + staleCard + "\noutro"},
		},
	})
	return string(b)
}

func TestTopicRender(t *testing.T) {
	t.Run("刷新首帖卡片", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{species: &catalog.Species{CommonName: "Red Russian Kale"}})

		w := render(t, r, payload(5), hookToken)
		require.Equal(t, http.StatusOK, w.Code)

		var out struct {
			TID   int              `json:"tid"`
			Extra string           `json:"extra"`
			Posts []map[string]any `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, 5, out.TID)
		assert.Equal(t, "kept", out.Extra)

		first := out.Posts[1]["content"].(string)
		assert.True(t, strings.HasPrefix(first, "intro\n"))
		assert.True(t, strings.HasSuffix(first, "\noutro"))
		assert.Contains(t, first, "Red Russian Kale")
		assert.NotContains(t, first, "<div>old</div>")

		assert.Equal(t, staleCard, out.Posts[0]["content"], "只改首帖")
	})

	t.Run("字符串 tid", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{species: &catalog.Species{CommonName: "Red Russian Kale"}})

		w := render(t, r, payload("5"), hookToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Red Russian Kale")
	})

	t.Run("目录故障时原样返回", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{err: catalog.ErrUpstream})

		w := render(t, r, payload(5), hookToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, payload(5), w.Body.String())
	})

	t.Run("没有关联时原样返回", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{species: &catalog.Species{CommonName: "X"}})

		w := render(t, r, payload(6), hookToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, payload(6), w.Body.String())
	})

	t.Run("无法识别的载荷", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{})

		w := render(t, r, `[1,2,3]`, hookToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[1,2,3]`, w.Body.String())
	})

	t.Run("令牌错误", func(t *testing.T) {
		r := setupHooks(t, &stubResolver{})

		w := render(t, r, payload(5), "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
