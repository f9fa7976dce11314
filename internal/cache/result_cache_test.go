package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *ResultCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	rc := NewResultCache(NewRedisKVStore(client), "raumboard:", 30*time.Second, zap.NewNop())
	return mr, rc
}

func TestResultCache_SetGetRoundTrip(t *testing.T) {
	_, rc := setupTestCache(t)
	ctx := context.Background()

	payload := []byte(`{"filtered":[]}`)
	rc.Set(ctx, "ds-1", "sem=HS|types=", payload)

	got, err := rc.Get(ctx, "ds-1", "sem=HS|types=")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestResultCache_MissReturnsErrCacheMiss(t *testing.T) {
	_, rc := setupTestCache(t)

	_, err := rc.Get(context.Background(), "ds-1", "sem=FS|types=")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestResultCache_DistinctSpecsDistinctKeys(t *testing.T) {
	_, rc := setupTestCache(t)
	ctx := context.Background()

	rc.Set(ctx, "ds-1", "spec-a", []byte("a"))
	rc.Set(ctx, "ds-1", "spec-b", []byte("b"))
	rc.Set(ctx, "ds-2", "spec-a", []byte("c"))

	a, err := rc.Get(ctx, "ds-1", "spec-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), a)

	b, err := rc.Get(ctx, "ds-1", "spec-b")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), b)

	c, err := rc.Get(ctx, "ds-2", "spec-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), c)
}

func TestResultCache_EntriesExpire(t *testing.T) {
	mr, rc := setupTestCache(t)
	ctx := context.Background()

	rc.Set(ctx, "ds-1", "spec-a", []byte("a"))
	mr.FastForward(31 * time.Second)

	_, err := rc.Get(ctx, "ds-1", "spec-a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisKVStore_MissMapsToErrCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := NewRedisKVStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, err := kv.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, kv.Set(context.Background(), "k", "v", 0))
	v, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
