package cache

import (
	"context"
	"errors"
	"time"

	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logger"

	"github.com/redis/go-redis/v9"
)

// ErrNotShared is returned when a command would only touch its own process
// memory. A server on the in-memory fallback drops catalog entries once
// CACHE_TTL_SECONDS pass.
var ErrNotShared = errors.New("REDIS_HOST is not set, no shared cache to clear")

type Scopes struct {
	Catalog Cache
	Tokens  Cache

	client *redis.Client
}

// NewScopes connects to redis when REDIS_HOST is set and falls back to
// process memory otherwise.
func NewScopes(ctx context.Context, log *logger.Logger) (*Scopes, error) {
	ttl := time.Duration(utils.GetConfigInt("CACHE_TTL_SECONDS", 300)) * time.Second

	if utils.GetConfig("REDIS_HOST") == "" {
		log.Warn("REDIS_HOST not set, using in-memory cache")
		return &Scopes{
			Catalog: NewMemoryCache(ttl),
			Tokens:  NewMemoryCache(0),
		}, nil
	}

	client, err := NewRedisClient(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("connected to redis", "addr", client.Options().Addr)
	return &Scopes{
		Catalog: NewRedisCache(client, ScopeCatalog, ttl),
		Tokens:  NewRedisCache(client, ScopeTokens, 0),
		client:  client,
	}, nil
}

func (s *Scopes) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Shared reports whether the scopes live in redis and are seen by every process.
func (s *Scopes) Shared() bool {
	return s.client != nil
}

// ClearCatalog drops the cached tag and ingredient listings of every process.
func (s *Scopes) ClearCatalog(ctx context.Context) error {
	if !s.Shared() {
		return ErrNotShared
	}
	return s.Catalog.Clear(ctx)
}
