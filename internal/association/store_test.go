package association

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns a fresh store plus a hook that registers topic ids the
// way the forum does when a topic is posted.
type storeFactory func(t *testing.T) (Store, func(tids ...int))

func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("Put 写入的两个方向保持一致", func(t *testing.T) {
		store, seed := newStore(t)
		seed(101)

		url := "https://atlas/variety/tomato-x-TX1"
		require.NoError(t, store.Put(ctx, "42", 101, url))

		article, err := store.GetByArticleID(ctx, "42")
		require.NoError(t, err)
		topic, err := store.GetByTopicID(ctx, 101)
		require.NoError(t, err)

		assert.Equal(t, 101, article.TopicID)
		assert.Equal(t, url, article.URL)
		assert.False(t, article.Timestamp.IsZero())
		assert.Equal(t, "42", topic.ArticleID)
		assert.Equal(t, article.URL, topic.URL)
	})

	t.Run("不存在的记录返回 ErrNotFound", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.GetByArticleID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.GetByTopicID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("缺字段拒绝写入", func(t *testing.T) {
		store, _ := newStore(t)

		assert.ErrorIs(t, store.Put(ctx, "", 1, "u"), ErrInvalidRecord)
		assert.ErrorIs(t, store.Put(ctx, "1", 0, "u"), ErrInvalidRecord)
		assert.ErrorIs(t, store.Put(ctx, "1", 1, ""), ErrInvalidRecord)
	})

	t.Run("按地址查找", func(t *testing.T) {
		store, seed := newStore(t)
		seed(1, 2, 3, 4, 5)

		require.NoError(t, store.Put(ctx, "a", 2, "https://atlas/variety/a"))
		require.NoError(t, store.Put(ctx, "b", 5, "https://atlas/variety/b"))

		tid, found, err := store.FindTopicByURL(ctx, "https://atlas/variety/b")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 5, tid)

		tid, found, err = store.FindTopicByURL(ctx, "https://atlas/variety/a")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, tid)

		_, found, err = store.FindTopicByURL(ctx, "https://atlas/variety/none")
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = store.FindTopicByURL(ctx, "")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("同一条目重复写入后写覆盖", func(t *testing.T) {
		store, seed := newStore(t)
		seed(7, 8)

		require.NoError(t, store.Put(ctx, "dup", 7, "https://atlas/variety/dup"))
		require.NoError(t, store.Put(ctx, "dup", 8, "https://atlas/variety/dup"))

		article, err := store.GetByArticleID(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, 8, article.TopicID)

		topic, err := store.GetByTopicID(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, "dup", topic.ArticleID)
	})

	t.Run("Ping", func(t *testing.T) {
		store, _ := newStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}
