package collection

import (
	"context"
	"regexp"
	"testing"

	"lifeband-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newStorage() *store.CachedKV {
	return store.NewCachedKV(store.NewMemoryKV(), store.NewMemoryCache(), zap.NewNop())
}

func TestLoad_MissingKeyReturnsFallback(t *testing.T) {
	s := newStorage()
	got := Load(context.Background(), s, "lifeband_portadores", []row{}, zap.NewNop())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_CorruptValueReturnsFallback(t *testing.T) {
	ctx := context.Background()
	s := newStorage()
	s.Set(ctx, "lifeband_portadores", "{not json")

	fallback := []row{{ID: "seed"}}
	got := Load(ctx, s, "lifeband_portadores", fallback, zap.NewNop())
	assert.Equal(t, fallback, got)
}

func TestLoad_NullValueReturnsFallback(t *testing.T) {
	ctx := context.Background()
	s := newStorage()
	s.Set(ctx, "k", "null")
	got := Load(ctx, s, "k", []row{}, nil)
	assert.NotNil(t, got)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := newStorage()
	items := []row{{ID: "b", Name: "second"}, {ID: "a", Name: "first"}}

	Save(ctx, s, "k", items, zap.NewNop())
	got := Load(ctx, s, "k", []row{}, zap.NewNop())
	assert.Equal(t, items, got)
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	s := newStorage()
	Save[row](ctx, s, "k", nil, nil)
	raw, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestGenerateID_Format(t *testing.T) {
	re := regexp.MustCompile(`^portador_\d{13}_[0-9a-z]{8}$`)
	id := GenerateID("portador")
	assert.Regexp(t, re, id)
}

func TestGenerateID_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := GenerateID("contacto")
		assert.False(t, seen[id], id)
		seen[id] = true
	}
}
