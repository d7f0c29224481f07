package store

import (
	"context"
	"errors"
)

// ErrMiss key not present in the store.
var ErrMiss = errors.New("cache miss")

// KV durable string-keyed store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
