// Package collection emulates a relational table as a JSON array stored under
// a single key of a never-failing string store.
package collection

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Storage the subset of store.CachedKV the helpers need.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Load decodes the array under key. A missing key or undecodable value yields
// fallback.
func Load[T any](ctx context.Context, s Storage, key string, fallback []T, logger *zap.Logger) []T {
	raw, ok := s.Get(ctx, key)
	if !ok || raw == "" {
		return fallback
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if logger != nil {
			logger.Debug("discarding unreadable collection", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	if items == nil {
		return fallback
	}
	return items
}

// Save encodes items under key. Encoding failures are logged and dropped.
func Save[T any](ctx context.Context, s Storage, key string, items []T, logger *zap.Logger) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to encode collection", zap.String("key", key), zap.Error(err))
		}
		return
	}
	s.Set(ctx, key, string(b))
}

const (
	suffixLen = 8
	base36    = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateID returns "<prefix>_<unix millis>_<8 base36 chars>".
// Unique enough for one admin on one device; not for multi-device sync.
func GenerateID(prefix string) string {
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomSuffix(suffixLen)
}

func randomSuffix(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			idx = big.NewInt(time.Now().UnixNano() % int64(len(base36)))
		}
		sb.WriteByte(base36[idx.Int64()])
	}
	return sb.String()
}
