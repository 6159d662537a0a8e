package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionRepository(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, repo.Save(ctx, 1, "tok"))
	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	mr.FastForward(50 * time.Second)
	require.NoError(t, repo.Extend(ctx, 1))
	mr.FastForward(50 * time.Second)
	_, err = repo.Get(ctx, 1)
	assert.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDistLock(t *testing.T) {
	_, client := setupTestRedis(t)
	lock := &DistLock{RDB: client, TTL: time.Second}
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "k", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx, "k", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	// a foreign token does not release the lock
	require.NoError(t, lock.Release(ctx, "k", "b"))
	ok, _ = lock.Acquire(ctx, "k", "b")
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx, "k", "a"))
	ok, _ = lock.Acquire(ctx, "k", "b")
	assert.True(t, ok)
}

func TestLikeCache(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewLikeCacheRepository(client)
	ctx := context.Background()

	_, found, err := cache.GetLikeCountCached(ctx, 9)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.SetLikeCount(ctx, 9, 3))
	n, found, err := cache.GetLikeCountCached(ctx, 9)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(3), n)

	require.NoError(t, cache.DeleteCount(ctx, 9))
	_, found, _ = cache.GetLikeCountCached(ctx, 9)
	assert.False(t, found)
}

func TestJSONCache(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := &JSONCache{RDB: client, Prefix: "tmdb:", TTL: time.Minute}
	ctx := context.Background()

	type doc struct{ Title string }
	var out doc
	found, err := cache.Get(ctx, "movie:1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "movie:1", doc{Title: "Alien"}))
	found, err = cache.Get(ctx, "movie:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Alien", out.Title)

	require.NoError(t, mr.Set("tmdb:movie:2", "{broken"))
	found, err = cache.Get(ctx, "movie:2", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("tmdb:movie:2"))
}
