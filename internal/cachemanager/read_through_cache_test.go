package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadThroughCache_MissThenHit(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	loader := func(ctx context.Context, input string) (int, error) {
		calls++
		return len(input), nil
	}

	rtc := NewReadThroughCache[string, int, string](cache, loader, false)

	v, err := rtc.Get(context.Background(), "k", "hello", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, 1, calls)

	// Second read served from cache
	v, err = rtc.Get(context.Background(), "k", "hello", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	loader := func(ctx context.Context, input string) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 42, nil
	}

	rtc := NewReadThroughCache[string, int, string](cache, loader, false)

	_, err := rtc.Get(context.Background(), "k", "in", time.Minute)
	require.Error(t, err)

	v, err := rtc.Get(context.Background(), "k", "in", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	calls := 0
	loader := func(ctx context.Context, input string) (int, error) {
		calls++
		return calls, nil
	}

	rtc := NewReadThroughCache[string, int, string](cache, loader, true)

	for i := 1; i <= 3; i++ {
		v, err := rtc.Get(context.Background(), "k", "in", time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", "1", time.Minute)
	cache.Set(ctx, "b", "2", time.Minute)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, found := cache.Get(ctx, "a")
	require.False(t, found)

	require.NoError(t, cache.Flush(ctx))
	_, found = cache.Get(ctx, "b")
	require.False(t, found)
}
