package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/datallboy/gonntp/internal/store"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *store.ArticleCache {
	t.Helper()

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestSaveAndGetArticle(t *testing.T) {
	require := require.New(t)
	cache := openCache(t)

	rec := &store.ArticleRecord{
		ID:        ksuid.New().String(),
		MessageID: "<unique@example.net>",
		Newsgroup: "misc.test",
		Subject:   "I am just a test article",
		Body:      []byte("This is just a test article.\r\n"),
		Bytes:     30,
		FetchedAt: time.Now().UTC(),
	}
	require.NoError(cache.SaveArticle(rec))

	got, err := cache.GetArticle("<unique@example.net>")
	require.NoError(err)
	require.NotNil(got)
	require.Equal(rec.MessageID, got.MessageID)
	require.Equal(rec.Subject, got.Subject)
	require.Equal(rec.Body, got.Body)
}

func TestGetArticleMiss(t *testing.T) {
	require := require.New(t)
	cache := openCache(t)

	got, err := cache.GetArticle("<never-fetched@example.net>")
	require.NoError(err)
	require.Nil(got)
}

func TestSaveArticleReplacesByMessageID(t *testing.T) {
	require := require.New(t)
	cache := openCache(t)

	first := &store.ArticleRecord{
		ID:        ksuid.New().String(),
		MessageID: "<dup@example.net>",
		Newsgroup: "misc.test",
		Body:      []byte("old"),
		Bytes:     3,
		FetchedAt: time.Now().UTC(),
	}
	require.NoError(cache.SaveArticle(first))

	second := *first
	second.ID = ksuid.New().String()
	second.Body = []byte("new")
	require.NoError(cache.SaveArticle(&second))

	got, err := cache.GetArticle("<dup@example.net>")
	require.NoError(err)
	require.Equal([]byte("new"), got.Body)

	n, err := cache.CountArticles("misc.test")
	require.NoError(err)
	require.Equal(int64(1), n)
}
