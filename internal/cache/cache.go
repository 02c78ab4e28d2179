package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("key not found in cache")

// Cache is a namespaced key/value store. Values are stored as JSON.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	// SetTTL stores value with an explicit expiration instead of the scope default.
	SetTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	// Clear removes every key of the scope and nothing else.
	Clear(ctx context.Context) error
}

const (
	ScopeCatalog = "catalog"
	ScopeTokens  = "tokens"
)
