package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideMissThenHit(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Title = "hello"
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "hello", first.Title)
	assert.True(t, mr.Exists(PostKey(1)))

	// Second read comes from the cache; fetch is not called again.
	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(1), &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "hello", second.Title)
}

func TestAsideCorruptEntryFallsBackToFetch(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(PostKey(2), "{not json"))

	var got cachedPost
	err := Aside(ctx, PostKey(2), &got, PostTTL, func() error {
		got.ID = 2
		got.Title = "fresh"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)

	// The corrupt entry was replaced with the fetched value.
	raw, err := mr.Get(PostKey(2))
	require.NoError(t, err)
	assert.Contains(t, raw, `"fresh"`)
}

func TestAsideWithoutClient(t *testing.T) {
	SetClient(nil)

	var got cachedPost
	err := Aside(context.Background(), PostKey(3), &got, time.Minute, func() error {
		got.Title = "uncached"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "uncached", got.Title)
}

func TestInvalidatePostDropsFeed(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(PostKey(4), `{"id":4}`))
	require.NoError(t, mr.Set(FeedKey, `[]`))

	InvalidatePost(ctx, 4)

	assert.False(t, mr.Exists(PostKey(4)))
	assert.False(t, mr.Exists(FeedKey))
}
