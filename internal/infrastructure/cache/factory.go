package cache

import (
	"context"

	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the read cache for cfg: nil when caching is disabled, Redis
// when enabled and reachable, otherwise the in-memory cache.
func New(ctx context.Context, cacheCfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.ReadCache, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cacheCfg.Enabled {
		logger.Info("Read cache disabled")
		return nil, noop, nil
	}
	if !redisCfg.Enabled {
		logger.Info("Using in-memory read cache")
		return NewMemoryReadCache(), noop, nil
	}

	c, err := NewRedisReadCache(ctx, redisCfg.Addr(), redisCfg.Password, redisCfg.DB, cacheCfg.KeyPrefix)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory read cache. "+
			"Instances will not share cached views.", zap.Error(err))
		return NewMemoryReadCache(), noop, nil
	}
	logger.Info("Using Redis read cache", zap.String("addr", redisCfg.Addr()))
	return c, c.Close, nil
}
