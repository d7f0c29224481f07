package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenKV fails every operation.
type brokenKV struct {
	calls int
}

var errBroken = errors.New("secure storage unavailable")

func (b *brokenKV) Get(context.Context, string) (string, error) {
	b.calls++
	return "", errBroken
}

func (b *brokenKV) Set(context.Context, string, string) error {
	b.calls++
	return errBroken
}

func (b *brokenKV) Delete(context.Context, string) error {
	b.calls++
	return errBroken
}

func TestCachedKV_SetThenGetSurvivesBrokenDurable(t *testing.T) {
	ctx := context.Background()
	durable := &brokenKV{}
	kv := NewCachedKV(durable, NewMemoryCache(), zap.NewNop())

	kv.Set(ctx, "lifeband_portadores", `[{"id":"portador_1"}]`)
	v, ok := kv.Get(ctx, "lifeband_portadores")

	require.True(t, ok)
	assert.Equal(t, `[{"id":"portador_1"}]`, v)
	assert.Equal(t, 2, durable.calls)
	assert.True(t, kv.Degraded())
	assert.ErrorIs(t, kv.LastError(), errBroken)
}

func TestCachedKV_GetMissing(t *testing.T) {
	kv := NewCachedKV(NewMemoryKV(), nil, nil)
	_, ok := kv.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.False(t, kv.Degraded())
}

func TestCachedKV_ReadSeedsCache(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryKV()
	require.NoError(t, durable.Set(ctx, "k", "v1"))

	cache := NewMemoryCache()
	kv := NewCachedKV(durable, cache, nil)

	v, ok := kv.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	cached, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", cached)
}

func TestCachedKV_DurablePreferredOverCache(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryKV()
	cache := NewMemoryCache()
	cache.put("k", "stale")
	require.NoError(t, durable.Set(ctx, "k", "fresh"))

	kv := NewCachedKV(durable, cache, nil)
	v, ok := kv.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestCachedKV_SharedCacheAcrossAdapters(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	a := NewCachedKV(&brokenKV{}, cache, nil)
	b := NewCachedKV(&brokenKV{}, cache, nil)

	a.Set(ctx, "lifeband_local_admin_id", "admin_1")
	v, ok := b.Get(ctx, "lifeband_local_admin_id")
	require.True(t, ok)
	assert.Equal(t, "admin_1", v)
}

func TestCachedKV_Remove(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryKV()
	kv := NewCachedKV(durable, nil, nil)

	kv.Set(ctx, "k", "v")
	kv.Remove(ctx, "k")

	_, ok := kv.Get(ctx, "k")
	assert.False(t, ok)
	_, err := durable.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCachedKV_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	kv := NewCachedKV(nil, nil, nil)
	kv.Set(ctx, "k", "v")
	v, ok := kv.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.False(t, kv.Degraded())
}
