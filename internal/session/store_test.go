package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"login-flow/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*miniredis.Miniredis, *CacheStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewCacheStore(rdb)
}

func TestCacheStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, store := newMiniredisStore(t)

	tok, err := store.Load(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, store.Save(ctx, "k", "token", time.Minute))
	require.Equal(t, time.Minute, mr.TTL("k"))

	tok, err = store.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "token", tok)

	require.NoError(t, store.Delete(ctx, "k"))
	require.False(t, mr.Exists("k"))
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestCacheStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(&cache.FakeCache{
		GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("get"))
		},
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("set"))
		},
		DelFn: func(context.Context, ...string) *redis.IntCmd {
			return redis.NewIntResult(0, errors.New("del"))
		},
	})
	_, err := store.Load(ctx, "k")
	require.EqualError(t, err, "get")
	require.EqualError(t, store.Save(ctx, "k", "v", time.Second), "set")
	require.EqualError(t, store.Delete(ctx, "k"), "del")
}
